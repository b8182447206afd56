package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	batchMaxDocuments = 500
	batchDocTimeout   = 60 * time.Second
)

// batchJob tracks the state of a running batch verification.
type batchJob struct {
	id        string
	cancel    context.CancelFunc
	startedAt time.Time
	total     int

	mu        sync.Mutex
	processed int
	state     string
	message   string
	last      *VerificationDTO
}

func (j *batchJob) snapshot() BatchStatusResponse {
	j.mu.Lock()
	defer j.mu.Unlock()
	return BatchStatusResponse{
		Running:   j.state == "running",
		JobID:     j.id,
		State:     j.state,
		Message:   j.message,
		Processed: j.processed,
		Total:     j.total,
		Last:      j.last,
	}
}

func (s *Server) handleBatchVerify(c *gin.Context) {
	var req BatchVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Documents) == 0 {
		s.renderError(c, http.StatusBadRequest, errors.New("no documents supplied"))
		return
	}
	if len(req.Documents) > batchMaxDocuments {
		s.renderError(c, http.StatusBadRequest, errors.New("too many documents in one batch"))
		return
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()
	if s.activeJob != nil && s.activeJob.snapshot().Running {
		s.renderError(c, http.StatusConflict, errors.New("batch verification already running"))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	job := &batchJob{
		id:        uuid.NewString(),
		cancel:    cancel,
		startedAt: time.Now().UTC(),
		total:     len(req.Documents),
		state:     "running",
	}
	s.activeJob = job

	go s.runBatch(ctx, job, req.Documents)

	c.JSON(http.StatusAccepted, StartBatchResponse{
		JobID:     job.id,
		Total:     job.total,
		StartedAt: job.startedAt,
	})
}

func (s *Server) runBatch(ctx context.Context, job *batchJob, docs []VerifyRequest) {
	defer job.cancel()

	logrus.WithFields(logrus.Fields{
		"job_id": job.id,
		"total":  job.total,
	}).Info("batch verification started")

	s.notifier.Broadcast(VerifyEvent{
		Type:  "started",
		JobID: job.id,
		Total: job.total,
	})

	finishState := "completed"
	for i, doc := range docs {
		select {
		case <-ctx.Done():
			finishState = "cancelled"
		default:
		}
		if finishState == "cancelled" {
			break
		}

		docCtx, cancel := context.WithTimeout(ctx, batchDocTimeout)
		dto, _, _, err := s.scoreAndPersist(docCtx, doc)
		cancel()
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"job_id": job.id,
				"index":  i,
			}).Warn("batch document failed")
			job.mu.Lock()
			job.message = err.Error()
			job.mu.Unlock()
			continue
		}

		job.mu.Lock()
		job.processed++
		job.last = &dto
		processed := job.processed
		job.mu.Unlock()

		s.notifier.Broadcast(VerifyEvent{
			Type:         "progress",
			JobID:        job.id,
			Total:        job.total,
			Processed:    processed,
			Verification: &dto,
		})
	}

	job.mu.Lock()
	job.state = finishState
	job.mu.Unlock()

	s.notifier.Broadcast(VerifyEvent{
		Type:      finishState,
		JobID:     job.id,
		Total:     job.total,
		Processed: job.snapshot().Processed,
	})
	logrus.WithFields(logrus.Fields{
		"job_id": job.id,
		"state":  finishState,
	}).Info("batch verification finished")
}

func (s *Server) handleBatchStatus(c *gin.Context) {
	s.jobMu.Lock()
	job := s.activeJob
	s.jobMu.Unlock()

	if job == nil {
		c.JSON(http.StatusOK, BatchStatusResponse{Running: false, State: "idle"})
		return
	}
	c.JSON(http.StatusOK, job.snapshot())
}

func (s *Server) handleCancelBatch(c *gin.Context) {
	jobID := c.Param("jobID")

	s.jobMu.Lock()
	job := s.activeJob
	s.jobMu.Unlock()

	if job == nil || job.id != jobID {
		s.renderError(c, http.StatusNotFound, errors.New("job not found"))
		return
	}
	job.cancel()
	c.JSON(http.StatusOK, gin.H{"status": "cancelling", "job_id": jobID})
}
