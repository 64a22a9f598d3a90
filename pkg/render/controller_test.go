package render

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "behancedl/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitErrorDeadline(t *testing.T) {
	cause := fmt.Errorf("element lookup: %w", context.DeadlineExceeded)

	err := waitError("https://www.behance.net/gallery/1/a", ".project-content-wrap", cause)

	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrorTypeNavigationTimeout))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "https://www.behance.net/gallery/1/a")
}

func TestWaitErrorOther(t *testing.T) {
	for _, cause := range []error{context.Canceled, errors.New("target closed")} {
		err := waitError("u", ".x", cause)

		assert.True(t, errs.Is(err, errs.ErrorTypeUnknown), "cause %v", cause)
		assert.False(t, errs.Is(err, errs.ErrorTypeNavigationTimeout))
		assert.ErrorIs(t, err, cause)
	}
}
