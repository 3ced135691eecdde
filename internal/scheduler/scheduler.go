package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	service     *Service
	serviceOnce sync.Once
	serviceErr  error
)

var (
	ErrNotInitialized = errors.New("scheduler not initialized")
	ErrEmptyJobName   = errors.New("job name is required")
	ErrEmptyCronExpr  = errors.New("cron expression is required")
	ErrDuplicateJob   = errors.New("job already registered")
)

// Job is a recurring task. Run gets a context bounded by Timeout that carries
// a logger tagged with the job name.
type Job struct {
	Name    string
	Cron    string
	Timeout time.Duration
	// Overlap decides what happens when a run is still going at the next tick;
	// zero means skip that tick.
	Overlap gocron.LimitMode
	Run     func(ctx context.Context) error
}

// Service owns the gocron scheduler. Cron expressions are read in the
// process's local time zone, the same zone bookings are dated in.
type Service struct {
	scheduler gocron.Scheduler
	mu        sync.Mutex
	jobs      map[string]uuid.UUID
	stopOnce  sync.Once
	stopErr   error
}

// Init creates the process-wide scheduler. Later calls return the first
// result.
func Init() error {
	serviceOnce.Do(func() {
		sched, err := gocron.NewScheduler(
			gocron.WithLocation(time.Local),
			gocron.WithGlobalJobOptions(
				gocron.WithEventListeners(
					gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
						log.Error().
							Str("job_id", jobID.String()).
							Str("job_name", jobName).
							Interface("panic", recoverData).
							Msg("Scheduled job panicked")
					}),
				),
			),
		)
		if err != nil {
			serviceErr = err
			return
		}
		service = &Service{scheduler: sched, jobs: make(map[string]uuid.UUID)}
		log.Info().Str("location", time.Local.String()).Msg("Scheduler initialized")
	})
	return serviceErr
}

func instance() (*Service, error) {
	if service == nil && serviceErr == nil {
		return nil, ErrNotInitialized
	}
	return service, serviceErr
}

func Start() error {
	svc, err := instance()
	if err != nil {
		return err
	}
	svc.Start()
	return nil
}

func Stop() error {
	svc, err := instance()
	if err != nil {
		return err
	}
	return svc.Stop()
}

// Register adds job to the process-wide scheduler.
func Register(job Job) error {
	svc, err := instance()
	if err != nil {
		return err
	}
	return svc.Register(job)
}

// JobNames lists the registered jobs in no particular order.
func JobNames() []string {
	svc, err := instance()
	if err != nil {
		return nil
	}
	svc.mu.Lock()
	defer svc.mu.Unlock()
	names := make([]string, 0, len(svc.jobs))
	for name := range svc.jobs {
		names = append(names, name)
	}
	return names
}

func (s *Service) Start() {
	if s == nil {
		log.Error().Msg("Scheduler start requested before initialization")
		return
	}
	log.Info().Int("jobs", len(s.jobs)).Msg("Scheduler starting")
	s.scheduler.Start()
}

// Stop waits for running jobs and is safe to call more than once.
func (s *Service) Stop() error {
	if s == nil {
		return ErrNotInitialized
	}
	s.stopOnce.Do(func() {
		log.Info().Msg("Scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})
	return s.stopErr
}

func (s *Service) Register(job Job) error {
	if s == nil {
		return ErrNotInitialized
	}
	name := strings.TrimSpace(job.Name)
	if name == "" {
		return ErrEmptyJobName
	}
	if strings.TrimSpace(job.Cron) == "" {
		return ErrEmptyCronExpr
	}
	if job.Run == nil {
		return fmt.Errorf("job %s has no run function", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	overlap := job.Overlap
	if overlap == 0 {
		overlap = gocron.LimitModeReschedule
	}

	jobLogger := log.With().Str("job_name", name).Str("cron", job.Cron).Logger()
	task := func() {
		ctx := context.Background()
		if job.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, job.Timeout)
			defer cancel()
		}
		ctx = jobLogger.WithContext(ctx)

		started := time.Now()
		if err := job.Run(ctx); err != nil {
			jobLogger.Error().Err(err).Dur("duration", time.Since(started)).Msg("Scheduled job failed")
			return
		}
		jobLogger.Debug().Dur("duration", time.Since(started)).Msg("Scheduled job completed")
	}

	registered, err := s.scheduler.NewJob(
		gocron.CronJob(job.Cron, false),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(overlap),
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduled job")
		return fmt.Errorf("register job %s: %w", name, err)
	}
	s.jobs[name] = registered.ID()
	jobLogger.Info().Msg("Scheduled job registered")
	return nil
}
