package explore

import (
	"google.golang.org/grpc"

	"github.com/oggyb/muzz-matching/internal/app"
	pb "github.com/oggyb/muzz-matching/internal/rpc/explore"
)

// Registrar ties the Explore service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
	viewer ViewerResolver
}

// NewRegistrar creates a new Registrar for the Explore service.
// viewer may be nil for MetadataViewerResolver.
func NewRegistrar(appCtx *app.AppContext, viewer ViewerResolver) *Registrar {
	return &Registrar{appCtx: appCtx, viewer: viewer}
}

// Register attaches the Explore service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	service := NewExploreService(r.appCtx, r.viewer)
	pb.RegisterExploreServiceServer(s, service)
}
