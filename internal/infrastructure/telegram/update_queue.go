package telegram

import (
	"context"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// UpdateQueue runs the updates of one user one after another in arrival
// order. Different users are handled in parallel.
type UpdateQueue struct {
	mu      sync.Mutex
	pending map[int64][]func()
	wg      sync.WaitGroup
}

// NewUpdateQueue creates an empty queue
func NewUpdateQueue() *UpdateQueue {
	return &UpdateQueue{pending: make(map[int64][]func())}
}

// Submit appends fn to the user's queue. A drainer goroutine is started
// when the user had nothing queued; it exits once the queue is empty.
func (q *UpdateQueue) Submit(userID int64, fn func()) {
	q.mu.Lock()
	queued, active := q.pending[userID]
	q.pending[userID] = append(queued, fn)
	if !active {
		q.wg.Add(1)
	}
	q.mu.Unlock()

	if !active {
		go q.drain(userID)
	}
}

func (q *UpdateQueue) drain(userID int64) {
	defer q.wg.Done()

	for {
		q.mu.Lock()
		queued := q.pending[userID]
		if len(queued) == 0 {
			delete(q.pending, userID)
			q.mu.Unlock()
			return
		}
		fn := queued[0]
		q.pending[userID] = queued[1:]
		q.mu.Unlock()

		fn()
	}
}

// Wait blocks until every submitted update has been handled
func (q *UpdateQueue) Wait() {
	q.wg.Wait()
}

// Middleware must run synchronously in the polling order, so the bot is
// built with a single worker and WithNotAsyncHandlers
func (q *UpdateQueue) Middleware(next tgbot.HandlerFunc) tgbot.HandlerFunc {
	return func(ctx context.Context, b *tgbot.Bot, update *models.Update) {
		userID, ok := updateUserID(update)
		if !ok {
			go next(ctx, b, update)
			return
		}

		q.Submit(userID, func() {
			next(ctx, b, update)
		})
	}
}

func updateUserID(update *models.Update) (int64, bool) {
	switch {
	case update == nil:
		return 0, false
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	case update.EditedMessage != nil && update.EditedMessage.From != nil:
		return update.EditedMessage.From.ID, true
	}
	return 0, false
}
