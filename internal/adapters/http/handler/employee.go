package handler

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/ogurasousui/employee-records/internal/core/employee"
	"go.uber.org/zap"
)

// EmployeeRequest は POST / PUT の本文です。
type EmployeeRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// EmployeeResponse は社員の JSON 表現です。
type EmployeeResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Salary *int64 `json:"salary"`
}

// EmployeeHTTPHandler は /employees 配下の HTTP 実装です。
type EmployeeHTTPHandler struct {
	svc    employee.UseCase
	logger *zap.Logger
}

// NewEmployeeHTTPHandler は EmployeeHTTPHandler を生成します。
func NewEmployeeHTTPHandler(svc employee.UseCase, logger *zap.Logger) *EmployeeHTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeHTTPHandler{svc: svc, logger: logger}
}

// Register はルートを登録します。
func (h *EmployeeHTTPHandler) Register(router fiber.Router) {
	router.Get("/employees", h.ListEmployees)
	router.Post("/employees", h.CreateEmployee)
	router.Get("/employees/:id", h.GetEmployee)
	router.Put("/employees/:id", h.ReplaceEmployee)
	router.Delete("/employees/:id", h.DeleteEmployee)
}

// ListEmployees は GET /employees を処理します。
func (h *EmployeeHTTPHandler) ListEmployees(c *fiber.Ctx) error {
	employees, err := h.svc.ListEmployees(c.UserContext())
	if err != nil {
		return h.toHTTPError(c, err)
	}

	resp := make([]EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, toEmployeeResponse(e))
	}
	return c.JSON(resp)
}

// CreateEmployee は POST /employees を処理します。
func (h *EmployeeHTTPHandler) CreateEmployee(c *fiber.Ctx) error {
	in, err := parseEmployee(c)
	if err != nil {
		return h.toHTTPError(c, err)
	}

	created, err := h.svc.CreateEmployee(c.UserContext(), in)
	if err != nil {
		return h.toHTTPError(c, err)
	}
	return c.JSON(toEmployeeResponse(created))
}

// GetEmployee は GET /employees/:id を処理します。存在しなければ 404 を返します。
func (h *EmployeeHTTPHandler) GetEmployee(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.toHTTPError(c, err)
	}

	found, err := h.svc.GetEmployee(c.UserContext(), id)
	if err != nil {
		return h.toHTTPError(c, err)
	}
	return c.JSON(toEmployeeResponse(found))
}

// ReplaceEmployee は PUT /employees/:id を処理します。
func (h *EmployeeHTTPHandler) ReplaceEmployee(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.toHTTPError(c, err)
	}

	in, err := parseEmployee(c)
	if err != nil {
		return h.toHTTPError(c, err)
	}

	saved, err := h.svc.ReplaceOrCreateEmployee(c.UserContext(), id, in)
	if err != nil {
		return h.toHTTPError(c, err)
	}
	return c.JSON(toEmployeeResponse(saved))
}

// DeleteEmployee は DELETE /employees/:id を処理します。
func (h *EmployeeHTTPHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.toHTTPError(c, err)
	}

	if err := h.svc.RemoveEmployee(c.UserContext(), id); err != nil {
		return h.toHTTPError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func parseID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", employee.ErrInvalidID, raw)
	}
	return id, nil
}

func parseEmployee(c *fiber.Ctx) (*employee.Employee, error) {
	var req EmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, fmt.Errorf("%w: %v", employee.ErrInvalidPayload, err)
	}
	return &employee.Employee{Name: req.Name, Role: req.Role}, nil
}

func toEmployeeResponse(e *employee.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:     e.ID,
		Name:   e.Name,
		Role:   e.Role,
		Salary: e.Salary,
	}
}
