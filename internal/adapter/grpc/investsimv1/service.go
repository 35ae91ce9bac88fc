package investsimv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "investsim.v1.SimulationService"

const (
	SimulationService_RunSimulation_FullMethodName       = "/investsim.v1.SimulationService/RunSimulation"
	SimulationService_SaveSimulation_FullMethodName      = "/investsim.v1.SimulationService/SaveSimulation"
	SimulationService_ListSimulations_FullMethodName     = "/investsim.v1.SimulationService/ListSimulations"
	SimulationService_GetSimulation_FullMethodName       = "/investsim.v1.SimulationService/GetSimulation"
	SimulationService_DeleteSimulation_FullMethodName    = "/investsim.v1.SimulationService/DeleteSimulation"
	SimulationService_RecomputeSimulation_FullMethodName = "/investsim.v1.SimulationService/RecomputeSimulation"
	SimulationService_GetDashboard_FullMethodName        = "/investsim.v1.SimulationService/GetDashboard"
	SimulationService_ListAssets_FullMethodName          = "/investsim.v1.SimulationService/ListAssets"
)

// SimulationServiceServer is the server API for SimulationService
type SimulationServiceServer interface {
	RunSimulation(context.Context, *RunSimulationRequest) (*RunSimulationResponse, error)
	SaveSimulation(context.Context, *SaveSimulationRequest) (*SaveSimulationResponse, error)
	ListSimulations(context.Context, *ListSimulationsRequest) (*ListSimulationsResponse, error)
	GetSimulation(context.Context, *GetSimulationRequest) (*GetSimulationResponse, error)
	DeleteSimulation(context.Context, *DeleteSimulationRequest) (*DeleteSimulationResponse, error)
	RecomputeSimulation(context.Context, *RecomputeSimulationRequest) (*RecomputeSimulationResponse, error)
	GetDashboard(context.Context, *GetDashboardRequest) (*GetDashboardResponse, error)
	ListAssets(context.Context, *ListAssetsRequest) (*ListAssetsResponse, error)
}

// UnimplementedSimulationServiceServer can be embedded to have forward compatible implementations
type UnimplementedSimulationServiceServer struct{}

func (UnimplementedSimulationServiceServer) RunSimulation(context.Context, *RunSimulationRequest) (*RunSimulationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RunSimulation not implemented")
}
func (UnimplementedSimulationServiceServer) SaveSimulation(context.Context, *SaveSimulationRequest) (*SaveSimulationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveSimulation not implemented")
}
func (UnimplementedSimulationServiceServer) ListSimulations(context.Context, *ListSimulationsRequest) (*ListSimulationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSimulations not implemented")
}
func (UnimplementedSimulationServiceServer) GetSimulation(context.Context, *GetSimulationRequest) (*GetSimulationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSimulation not implemented")
}
func (UnimplementedSimulationServiceServer) DeleteSimulation(context.Context, *DeleteSimulationRequest) (*DeleteSimulationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteSimulation not implemented")
}
func (UnimplementedSimulationServiceServer) RecomputeSimulation(context.Context, *RecomputeSimulationRequest) (*RecomputeSimulationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RecomputeSimulation not implemented")
}
func (UnimplementedSimulationServiceServer) GetDashboard(context.Context, *GetDashboardRequest) (*GetDashboardResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDashboard not implemented")
}
func (UnimplementedSimulationServiceServer) ListAssets(context.Context, *ListAssetsRequest) (*ListAssetsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAssets not implemented")
}

// RegisterSimulationServiceServer registers srv with s
func RegisterSimulationServiceServer(s grpc.ServiceRegistrar, srv SimulationServiceServer) {
	s.RegisterService(&SimulationService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler
func unaryHandler[Req any, Resp any](fullMethod string, call func(SimulationServiceServer, context.Context, *Req) (*Resp, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(SimulationServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(SimulationServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// SimulationService_ServiceDesc is the grpc.ServiceDesc for SimulationService
var SimulationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RunSimulation",
			Handler:    unaryHandler(SimulationService_RunSimulation_FullMethodName, SimulationServiceServer.RunSimulation),
		},
		{
			MethodName: "SaveSimulation",
			Handler:    unaryHandler(SimulationService_SaveSimulation_FullMethodName, SimulationServiceServer.SaveSimulation),
		},
		{
			MethodName: "ListSimulations",
			Handler:    unaryHandler(SimulationService_ListSimulations_FullMethodName, SimulationServiceServer.ListSimulations),
		},
		{
			MethodName: "GetSimulation",
			Handler:    unaryHandler(SimulationService_GetSimulation_FullMethodName, SimulationServiceServer.GetSimulation),
		},
		{
			MethodName: "DeleteSimulation",
			Handler:    unaryHandler(SimulationService_DeleteSimulation_FullMethodName, SimulationServiceServer.DeleteSimulation),
		},
		{
			MethodName: "RecomputeSimulation",
			Handler:    unaryHandler(SimulationService_RecomputeSimulation_FullMethodName, SimulationServiceServer.RecomputeSimulation),
		},
		{
			MethodName: "GetDashboard",
			Handler:    unaryHandler(SimulationService_GetDashboard_FullMethodName, SimulationServiceServer.GetDashboard),
		},
		{
			MethodName: "ListAssets",
			Handler:    unaryHandler(SimulationService_ListAssets_FullMethodName, SimulationServiceServer.ListAssets),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "investsim/v1/simulation",
}

// SimulationServiceClient is the client API for SimulationService.
// Calls are sent with the JSON codec.
type SimulationServiceClient interface {
	RunSimulation(ctx context.Context, in *RunSimulationRequest, opts ...grpc.CallOption) (*RunSimulationResponse, error)
	SaveSimulation(ctx context.Context, in *SaveSimulationRequest, opts ...grpc.CallOption) (*SaveSimulationResponse, error)
	ListSimulations(ctx context.Context, in *ListSimulationsRequest, opts ...grpc.CallOption) (*ListSimulationsResponse, error)
	GetSimulation(ctx context.Context, in *GetSimulationRequest, opts ...grpc.CallOption) (*GetSimulationResponse, error)
	DeleteSimulation(ctx context.Context, in *DeleteSimulationRequest, opts ...grpc.CallOption) (*DeleteSimulationResponse, error)
	RecomputeSimulation(ctx context.Context, in *RecomputeSimulationRequest, opts ...grpc.CallOption) (*RecomputeSimulationResponse, error)
	GetDashboard(ctx context.Context, in *GetDashboardRequest, opts ...grpc.CallOption) (*GetDashboardResponse, error)
	ListAssets(ctx context.Context, in *ListAssetsRequest, opts ...grpc.CallOption) (*ListAssetsResponse, error)
}

type simulationServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSimulationServiceClient creates a client on top of cc
func NewSimulationServiceClient(cc grpc.ClientConnInterface) SimulationServiceClient {
	return &simulationServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *simulationServiceClient) RunSimulation(ctx context.Context, in *RunSimulationRequest, opts ...grpc.CallOption) (*RunSimulationResponse, error) {
	return invoke[RunSimulationResponse](ctx, c.cc, SimulationService_RunSimulation_FullMethodName, in, opts)
}

func (c *simulationServiceClient) SaveSimulation(ctx context.Context, in *SaveSimulationRequest, opts ...grpc.CallOption) (*SaveSimulationResponse, error) {
	return invoke[SaveSimulationResponse](ctx, c.cc, SimulationService_SaveSimulation_FullMethodName, in, opts)
}

func (c *simulationServiceClient) ListSimulations(ctx context.Context, in *ListSimulationsRequest, opts ...grpc.CallOption) (*ListSimulationsResponse, error) {
	return invoke[ListSimulationsResponse](ctx, c.cc, SimulationService_ListSimulations_FullMethodName, in, opts)
}

func (c *simulationServiceClient) GetSimulation(ctx context.Context, in *GetSimulationRequest, opts ...grpc.CallOption) (*GetSimulationResponse, error) {
	return invoke[GetSimulationResponse](ctx, c.cc, SimulationService_GetSimulation_FullMethodName, in, opts)
}

func (c *simulationServiceClient) DeleteSimulation(ctx context.Context, in *DeleteSimulationRequest, opts ...grpc.CallOption) (*DeleteSimulationResponse, error) {
	return invoke[DeleteSimulationResponse](ctx, c.cc, SimulationService_DeleteSimulation_FullMethodName, in, opts)
}

func (c *simulationServiceClient) RecomputeSimulation(ctx context.Context, in *RecomputeSimulationRequest, opts ...grpc.CallOption) (*RecomputeSimulationResponse, error) {
	return invoke[RecomputeSimulationResponse](ctx, c.cc, SimulationService_RecomputeSimulation_FullMethodName, in, opts)
}

func (c *simulationServiceClient) GetDashboard(ctx context.Context, in *GetDashboardRequest, opts ...grpc.CallOption) (*GetDashboardResponse, error) {
	return invoke[GetDashboardResponse](ctx, c.cc, SimulationService_GetDashboard_FullMethodName, in, opts)
}

func (c *simulationServiceClient) ListAssets(ctx context.Context, in *ListAssetsRequest, opts ...grpc.CallOption) (*ListAssetsResponse, error) {
	return invoke[ListAssetsResponse](ctx, c.cc, SimulationService_ListAssets_FullMethodName, in, opts)
}
