package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	infrakafka "github.com/imgvault/image-vault/internal/infrastructure/kafka"
	"github.com/imgvault/image-vault/internal/usecase"
	"github.com/imgvault/image-vault/pkg/logger"
)

// KafkaController drains the completion-notification topic. Every message
// is committed exactly once it has been processed, regardless of how many
// of its records actually applied: the topic is at-least-once, so leaving
// a message uncommitted over per-record failures would only replay them.
type KafkaController struct {
	img    usecase.ImageUseCase
	nc     *infrakafka.NotificationConsumer
	logger logger.Interface

	commitTimeout  time.Duration
	processTimeout time.Duration

	workers int
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	started atomic.Bool
}

func New(
	img usecase.ImageUseCase,
	nc *infrakafka.NotificationConsumer,
	l logger.Interface,
	commitTimeout time.Duration,
	processTimeout time.Duration,
	workers int,
) *KafkaController {
	return &KafkaController{
		img:            img,
		nc:             nc,
		logger:         l,
		commitTimeout:  commitTimeout,
		processTimeout: processTimeout,
		workers:        workers,
	}
}

func (c *KafkaController) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return fmt.Errorf("KafkaController - Start - controller already started")
	}

	c.ctx, c.cancel = context.WithCancel(ctx)

	tasks := make(chan kafka.Message, c.workers*2)

	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(tasks)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(tasks)

		for {
			select {
			case <-c.ctx.Done():
				return
			default:
				msg, err := c.nc.ReadNotification(c.ctx)
				if err != nil {
					if !errors.Is(err, context.Canceled) {
						c.logger.Error(err, "KafkaController - Start - c.nc.ReadNotification")
					}
					continue
				}

				select {
				case tasks <- msg:
				case <-c.ctx.Done():
					return
				}
			}
		}
	}()

	return nil
}

func (c *KafkaController) processNotification(ctx context.Context, msg kafka.Message) {
	var batch CompletionBatch
	if err := json.Unmarshal(msg.Value, &batch); err != nil {
		// not a bucket-notification document; drop it rather than block
		// the partition on a poison message
		c.logger.Warn("dropping undecodable notification at offset=%d: %v", msg.Offset, err)

		return
	}

	c.img.ApplyCompletions(ctx, batch.ObjectKeys())
}

func (c *KafkaController) worker(tasks <-chan kafka.Message) {
	defer c.wg.Done()

	for msg := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(fmt.Errorf("panic %v", r), "KafkaController - worker - panic")
				}
			}()

			processCtx, processCancel := context.WithTimeout(c.ctx, c.processTimeout)
			c.processNotification(processCtx, msg)
			processCancel()

			commitCtx, commitCancel := context.WithTimeout(c.ctx, c.commitTimeout)
			err := c.nc.CommitNotification(commitCtx, msg)
			commitCancel()
			if err != nil {
				c.logger.Error(err, "KafkaController - worker - c.nc.CommitNotification")
			}
		}()
	}
}

func (c *KafkaController) Shutdown(ctx context.Context) error {
	if !c.started.Load() {
		return nil
	}

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})

	go func() {
		c.wg.Wait()
		c.nc.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return nil
	}
}
