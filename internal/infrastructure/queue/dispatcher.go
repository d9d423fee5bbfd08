package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/belleallure/salon-api/internal/api/metrics"
	"github.com/belleallure/salon-api/internal/core/domain"
	"github.com/belleallure/salon-api/internal/core/ports"
	"github.com/belleallure/salon-api/internal/infrastructure/notify"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	maxAttempts    = 3
)

// Job is one client email waiting to be rendered and sent.
type Job struct {
	ID          string
	Kind        notify.Kind
	Appointment domain.Appointment
	Event       domain.CalendarEvent
}

// Dispatcher routes notification jobs to a fixed set of workers using
// consistent hashing on the appointment ID, so the booked and cancelled
// emails of one appointment are sent in order.
type Dispatcher struct {
	workers []chan Job
	sender  notify.Sender
	salon   string
	log     zerolog.Logger
	backoff time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

var _ ports.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sender notify.Sender, salon string, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Job, numWorkers),
		sender:  sender,
		salon:   salon,
		log:     log,
		backoff: 500 * time.Millisecond,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Job, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled
// or after Close once their channel is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Close stops accepting jobs and waits for queued ones to be sent.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Dispatcher) AppointmentBooked(a *domain.Appointment, ev domain.CalendarEvent) {
	d.Enqueue(notify.KindBooked, a, ev)
}

func (d *Dispatcher) AppointmentCancelled(a *domain.Appointment, ev domain.CalendarEvent) {
	d.Enqueue(notify.KindCancelled, a, ev)
}

// Enqueue hands a job to the worker owning the appointment. It never blocks:
// when the worker channel is full the job is dropped and counted.
func (d *Dispatcher) Enqueue(kind notify.Kind, a *domain.Appointment, ev domain.CalendarEvent) bool {
	job := Job{ID: uuid.NewString(), Kind: kind, Appointment: *a, Event: ev}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		metrics.NotificationsTotal.WithLabelValues(string(kind), "dropped").Inc()
		return false
	}

	idx := d.shardIndex(a.ID)
	select {
	case d.workers[idx] <- job:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return true
	default:
		metrics.NotificationsTotal.WithLabelValues(string(kind), "dropped").Inc()
		d.log.Warn().
			Str("job_id", job.ID).
			Str("appointment_id", a.ID).
			Int("worker_id", idx).
			Msg("notification queue full, dropping job")
		return false
	}
}

// shardIndex maps an appointment ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(appointmentID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(appointmentID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Job) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.deliver(ctx, id, job)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, job Job) {
	log := d.log.With().
		Str("job_id", job.ID).
		Str("appointment_id", job.Appointment.ID).
		Str("kind", string(job.Kind)).
		Int("worker_id", workerID).
		Logger()

	if job.Appointment.Client.Email == "" {
		log.Debug().Msg("no client email, skipping notification")
		return
	}

	msg, err := notify.Compose(job.Kind, d.salon, &job.Appointment, job.Event)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(string(job.Kind), "failed").Inc()
		log.Error().Err(err).Msg("notification render failed")
		return
	}

retry:
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = d.sender.Send(msg.To, msg.Subject, msg.Body); err == nil {
			metrics.NotificationsTotal.WithLabelValues(string(job.Kind), "sent").Inc()
			log.Info().Int("attempt", attempt).Msg("notification sent")
			return
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			break retry
		case <-time.After(d.backoff * time.Duration(attempt)):
		}
	}
	metrics.NotificationsTotal.WithLabelValues(string(job.Kind), "failed").Inc()
	log.Error().Err(err).Msg("notification delivery failed")
}
