package mail

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/abhiya492/ecommerce-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// Dispatcher delivers best-effort notification mail in the background,
// sharding jobs across a fixed set of workers by recipient so mail to the
// same address keeps its order. Delivery failures are logged and reported
// through the failure hook but never surfaced to the enqueuer.
type Dispatcher struct {
	workers []chan ports.MailJob
	mailer  ports.Mailer
	log     zerolog.Logger

	// OnFailure is invoked per failed delivery. Observability hook; may be
	// nil.
	OnFailure func(err error)
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, mailer ports.Mailer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.MailJob, numWorkers),
		mailer:  mailer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.MailJob, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a job to the worker responsible for its recipient. When the
// worker's buffer is full the job is dropped rather than blocking the
// request path.
func (d *Dispatcher) Enqueue(job ports.MailJob) {
	select {
	case d.workers[d.shardIndex(job.To)] <- job:
	default:
		d.log.Warn().Str("to", job.To).Msg("mail queue full, notification dropped")
	}
}

func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.MailJob) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			if err := d.mailer.Send(ctx, job.To, job.Subject, job.Body); err != nil {
				d.log.Warn().Err(err).
					Str("to", job.To).
					Int("worker_id", id).
					Msg("notification mail delivery failed")
				if d.OnFailure != nil {
					d.OnFailure(err)
				}
			}
		}
	}
}
