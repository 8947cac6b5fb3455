package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create order: %w", New(KindInsufficientStock, "not enough stock"))

	assert.Equal(t, KindInsufficientStock, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.True(t, Is(wrapped, KindInsufficientStock))
	assert.False(t, Is(nil, KindNotFound))
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := Wrap(errors.New("dial tcp 10.0.0.3:27017: refused"), KindInternal, "database down")

	assert.Equal(t, "internal error", PublicMessage(err))
	assert.Equal(t, "internal error", PublicMessage(errors.New("raw")))
	assert.Equal(t, "Order not found", PublicMessage(NotFound("Order not found")))
}

func TestStatusRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		kind Kind
	}{
		{"not found", NotFound("Product not found"), codes.NotFound, KindNotFound},
		{"stock", New(KindInsufficientStock, "Not enough stock"), codes.FailedPrecondition, KindInsufficientStock},
		{"configuration", New(KindConfiguration, "unknown service"), codes.FailedPrecondition, KindConfiguration},
		{"conflict", New(KindConflict, "email taken"), codes.AlreadyExists, KindConflict},
		{"internal", errors.New("boom"), codes.Internal, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := ToStatus(tt.err)
			assert.Equal(t, tt.code, status.Code(st))
			assert.NotContains(t, st.Error(), "boom")

			back := FromStatus(st)
			assert.Equal(t, tt.kind, KindOf(back))
		})
	}
}

func TestFromStatusPlainCodes(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(FromStatus(status.Error(codes.NotFound, "missing"))))
	assert.Equal(t, KindUnavailable, KindOf(FromStatus(status.Error(codes.Unavailable, "connection refused"))))
	assert.Equal(t, KindUnavailable, KindOf(FromStatus(errors.New("not a status"))))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("x")))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(New(KindInsufficientStock, "x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidArgument("x")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("x")))
}
