package handler

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/ogurasousui/employee-records/internal/core/employee"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
//
// 社員は google.protobuf.Struct で表現します。id と salary は proto3 JSON の
// int64 表現に合わせて 10 進文字列で返し、入力では数値と文字列の両方を受け付けます。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

var _ EmployeeServiceServer = (*EmployeeGrpcHandler)(nil)

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// ListEmployees は社員一覧を返します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	employees, err := h.svc.ListEmployees(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	values := make([]*structpb.Value, 0, len(employees))
	for _, e := range employees {
		values = append(values, structpb.NewStructValue(toProtoEmployee(e)))
	}
	return &structpb.ListValue{Values: values}, nil
}

// GetEmployee は社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req == nil {
		return nil, toStatusError(employee.ErrInvalidID)
	}

	found, err := h.svc.GetEmployee(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(found), nil
}

// CreateEmployee は社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := fromProtoEmployee(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	created, err := h.svc.CreateEmployee(ctx, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(created), nil
}

// ReplaceEmployee は id フィールドの社員を置き換え、存在しなければ作成します。
func (h *EmployeeGrpcHandler) ReplaceEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := int64Field(req, "id")
	if err != nil {
		return nil, toStatusError(err)
	}

	in, err := fromProtoEmployee(req)
	if err != nil {
		return nil, toStatusError(err)
	}

	saved, err := h.svc.ReplaceOrCreateEmployee(ctx, id, in)
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoEmployee(saved), nil
}

// DeleteEmployee は社員を削除します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if req == nil {
		return nil, toStatusError(employee.ErrInvalidID)
	}

	if err := h.svc.RemoveEmployee(ctx, req.GetValue()); err != nil {
		return nil, toStatusError(err)
	}
	return &emptypb.Empty{}, nil
}

func toProtoEmployee(e *employee.Employee) *structpb.Struct {
	salary := structpb.NewNullValue()
	if e.Salary != nil {
		salary = structpb.NewStringValue(strconv.FormatInt(*e.Salary, 10))
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":     structpb.NewStringValue(strconv.FormatInt(e.ID, 10)),
		"name":   structpb.NewStringValue(e.Name),
		"role":   structpb.NewStringValue(e.Role),
		"salary": salary,
	}}
}

func fromProtoEmployee(s *structpb.Struct) (*employee.Employee, error) {
	if s == nil {
		return nil, employee.ErrInvalidPayload
	}

	name, err := stringField(s, "name")
	if err != nil {
		return nil, err
	}
	role, err := stringField(s, "role")
	if err != nil {
		return nil, err
	}
	return &employee.Employee{Name: name, Role: role}, nil
}

func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", employee.ErrInvalidPayload, key)
	}
}

func int64Field(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", employee.ErrInvalidID, key)
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, fmt.Errorf("%w: %s must be an integer", employee.ErrInvalidID, key)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", employee.ErrInvalidID, key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number or string", employee.ErrInvalidID, key)
	}
}
