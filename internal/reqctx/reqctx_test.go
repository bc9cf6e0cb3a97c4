package reqctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"motherduck-destination/internal/errs"
)

func TestAcquireRejectsMissingToken(t *testing.T) {
	cfg := Config{"motherduck_database": "mydb"}
	_, err := Acquire(context.Background(), cfg, "abc", "", "session-1", nil)
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
}

func TestAcquireRejectsMissingDatabase(t *testing.T) {
	cfg := Config{"motherduck_token": "tok"}
	_, err := Acquire(context.Background(), cfg, "abc", "", "session-1", nil)
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
}

func TestConfigGetRejectsEmptyValue(t *testing.T) {
	cfg := Config{"motherduck_token": ""}
	_, err := cfg.get("token")
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
}
