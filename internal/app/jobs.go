package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/petuhovskiy/thus-saith/internal/log"
)

// Register tracks background jobs of the application, so that shutdown can
// wait for them. A failing job is logged, it does not stop the others.
type Register struct {
	all sync.WaitGroup
}

func NewRegister() *Register {
	return &Register{}
}

// Go runs job in a new goroutine.
func (r *Register) Go(ctx context.Context, name string, job func() error) {
	ctx = log.With(ctx, zap.String("job", name))
	r.all.Add(1)

	go func() {
		defer r.all.Done()
		if err := job(); err != nil {
			log.Error(ctx, "background job failed", zap.Error(err))
			return
		}
		log.Debug(ctx, "background job finished")
	}()
}

func (r *Register) WaitAll(ctx context.Context) {
	log.Debug(ctx, "waiting for background jobs to finish")
	r.all.Wait()
}
