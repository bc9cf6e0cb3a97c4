package rpcserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"motherduck-destination/internal/core"
	"motherduck-destination/internal/errs"
	"motherduck-destination/internal/migrate"
	"motherduck-destination/internal/pb"
)

func TestToCoreColumnRoundTrip(t *testing.T) {
	def := "5"
	col := pb.Column{Name: "age", Type: pb.DataTypeInt, PrimaryKey: true, DefaultValue: &def}
	converted := toCoreColumn(col)
	back := toPBColumn(converted)
	assert.Equal(t, col, back)
}

func TestGrpcErrorMapsInvalidArgument(t *testing.T) {
	err := grpcError(errs.InvalidArgument("bad config"))
	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.InvalidArgument, st.Code())
}

func TestGrpcErrorMapsWarehouseToInternal(t *testing.T) {
	err := grpcError(errs.Warehouse(assertError("boom")))
	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
}

func TestSyncModeTransitionUnknownPairIsNegative(t *testing.T) {
	tr := syncModeTransition("BOGUS", string(core.SyncLive))
	assert.Equal(t, migrate.SyncModeTransition(-1), tr)
}

func TestSyncModeTransitionKnownPair(t *testing.T) {
	tr := syncModeTransition(string(core.SyncLive), string(core.SyncHistory))
	assert.Equal(t, migrate.TransitionLiveToHistory, tr)
}

type assertError string

func (e assertError) Error() string { return string(e) }
