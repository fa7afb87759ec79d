package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// EmployeeServiceName は gRPC のサービス名です。
const EmployeeServiceName = "employees.v1.EmployeeService"

// EmployeeServiceServer は employees.v1.EmployeeService のサーバー側インターフェースです。
// メッセージには protobuf の well-known type を用いるため生成コードを必要としません。
type EmployeeServiceServer interface {
	ListEmployees(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	GetEmployee(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	CreateEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReplaceEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// EmployeeServiceDesc は grpc.Server へ登録するサービス定義です。
var EmployeeServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListEmployees",
			Handler: unary("ListEmployees", func() *emptypb.Empty { return new(emptypb.Empty) },
				EmployeeServiceServer.ListEmployees),
		},
		{
			MethodName: "GetEmployee",
			Handler: unary("GetEmployee", func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) },
				EmployeeServiceServer.GetEmployee),
		},
		{
			MethodName: "CreateEmployee",
			Handler: unary("CreateEmployee", func() *structpb.Struct { return new(structpb.Struct) },
				EmployeeServiceServer.CreateEmployee),
		},
		{
			MethodName: "ReplaceEmployee",
			Handler: unary("ReplaceEmployee", func() *structpb.Struct { return new(structpb.Struct) },
				EmployeeServiceServer.ReplaceEmployee),
		},
		{
			MethodName: "DeleteEmployee",
			Handler: unary("DeleteEmployee", func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) },
				EmployeeServiceServer.DeleteEmployee),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "employees/v1/employee.proto",
}

// RegisterEmployeeServiceServer は srv を s に登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + EmployeeServiceName + "/" + method
}

func unary[Req, Resp proto.Message](
	method string,
	newReq func() Req,
	call func(EmployeeServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	info := &grpc.UnaryServerInfo{FullMethod: fullMethod(method)}
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(EmployeeServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		callInfo := *info
		callInfo.Server = srv
		return interceptor(ctx, in, &callInfo, func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(Req))
		})
	}
}

// EmployeeServiceClient は employees.v1.EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient は EmployeeServiceClient を生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

func (c *EmployeeServiceClient) ListEmployees(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, fullMethod("ListEmployees"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) GetEmployee(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("GetEmployee"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) CreateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("CreateEmployee"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) ReplaceEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod("ReplaceEmployee"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) DeleteEmployee(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, fullMethod("DeleteEmployee"), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
