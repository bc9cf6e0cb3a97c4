package pb

import (
	"context"

	"google.golang.org/grpc"
)

// DestinationConnectorServer is the interface internal/rpcserver
// implements; it mirrors the 8-method destination-connector surface
// from spec.md §6.1.
type DestinationConnectorServer interface {
	ConfigurationForm(context.Context, *ConfigurationFormRequest) (*ConfigurationFormResponse, error)
	Test(context.Context, *TestRequest) (*TestResponse, error)
	DescribeTable(context.Context, *DescribeTableRequest) (*DescribeTableResponse, error)
	CreateTable(context.Context, *CreateTableRequest) (*CreateTableResponse, error)
	AlterTable(context.Context, *AlterTableRequest) (*AlterTableResponse, error)
	Truncate(context.Context, *TruncateRequest) (*TruncateResponse, error)
	WriteBatch(context.Context, *WriteBatchRequest) (*WriteBatchResponse, error)
	Migrate(context.Context, *MigrateRequest) (*MigrateResponse, error)
}

// ServiceName is the gRPC service name advertised in reflection and
// logs, kept stable across the hand-authored descriptor below.
const ServiceName = "fivetran_sdk.DestinationConnector"

// RegisterDestinationConnectorServer registers srv against s using a
// hand-authored grpc.ServiceDesc, the same shape protoc-gen-go-grpc
// would emit from destination.proto.
func RegisterDestinationConnectorServer(s grpc.ServiceRegistrar, srv DestinationConnectorServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DestinationConnectorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ConfigurationForm", Handler: configurationFormHandler},
		{MethodName: "Test", Handler: testHandler},
		{MethodName: "DescribeTable", Handler: describeTableHandler},
		{MethodName: "CreateTable", Handler: createTableHandler},
		{MethodName: "AlterTable", Handler: alterTableHandler},
		{MethodName: "Truncate", Handler: truncateHandler},
		{MethodName: "WriteBatch", Handler: writeBatchHandler},
		{MethodName: "Migrate", Handler: migrateHandler},
	},
	Metadata: "destination.proto",
}

func configurationFormHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ConfigurationFormRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).ConfigurationForm(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ConfigurationForm"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).ConfigurationForm(ctx, req.(*ConfigurationFormRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func testHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TestRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).Test(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Test"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).Test(ctx, req.(*TestRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func describeTableHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DescribeTableRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).DescribeTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/DescribeTable"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).DescribeTable(ctx, req.(*DescribeTableRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func createTableHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateTableRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).CreateTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/CreateTable"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).CreateTable(ctx, req.(*CreateTableRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func alterTableHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AlterTableRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).AlterTable(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/AlterTable"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).AlterTable(ctx, req.(*AlterTableRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func truncateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TruncateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).Truncate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Truncate"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).Truncate(ctx, req.(*TruncateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func writeBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WriteBatchRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).WriteBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/WriteBatch"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).WriteBatch(ctx, req.(*WriteBatchRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func migrateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MigrateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DestinationConnectorServer).Migrate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Migrate"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DestinationConnectorServer).Migrate(ctx, req.(*MigrateRequest))
	}
	return interceptor(ctx, in, info, handler)
}
