package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/battlestats/models"
)

func TestAcquirePage_CreatesOnEmptySlot(t *testing.T) {
	pool := rod.NewPagePool(1)
	want := &rod.Page{}

	got, err := acquirePage(context.Background(), pool, func() (*rod.Page, error) {
		return want, nil
	})
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 0, len(pool))

	pool.Put(got)
	again, err := acquirePage(context.Background(), pool, func() (*rod.Page, error) {
		t.Fatal("pooled page should be reused")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Same(t, want, again)
}

func TestAcquirePage_ExhaustedPoolHonoursContext(t *testing.T) {
	pool := rod.NewPagePool(1)
	<-pool // the only tab is busy

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := acquirePage(ctx, pool, func() (*rod.Page, error) {
		t.Fatal("create must not run without a slot")
		return nil, nil
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeTimeout, se.Code)
}

func TestAcquirePage_CreateFailureReturnsSlot(t *testing.T) {
	pool := rod.NewPagePool(1)

	_, err := acquirePage(context.Background(), pool, func() (*rod.Page, error) {
		return nil, errors.New("target crashed")
	})
	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeBrowserCrash, se.Code)
	assert.Equal(t, 1, len(pool))
}
