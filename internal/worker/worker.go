package worker

import (
	"context"
	"log/slog"

	"github.com/cradoe/remitflow/internal/helper"
	"github.com/cradoe/remitflow/internal/repository"
	"github.com/cradoe/remitflow/internal/smtp"
	"github.com/cradoe/remitflow/internal/stream"
)

// ReceiptObserver counts receipt outcomes: sent, skipped or failed.
type ReceiptObserver interface {
	ObserveReceipt(outcome string)
}

type Worker struct {
	KafkaStream *stream.KafkaStream
	Credentials repository.CredentialRepository
	Mailer      smtp.MailerInterface
	Helper      *helper.HelperRepository
	Logger      *slog.Logger
	Observer    ReceiptObserver
	Ctx         context.Context
}

const (
	// transferReceiptGroupID is used for workers that notify the sender once a transfer is committed
	transferReceiptGroupID = "transfer-receipt-group"
)

// Our workers typically need access to the credential store and kafka event stream
// worker-specific dependency can be passed as argument to the worker
func New(wk *Worker) *Worker {
	return &Worker{
		KafkaStream: wk.KafkaStream,
		Credentials: wk.Credentials,
		Mailer:      wk.Mailer,
		Helper:      wk.Helper,
		Logger:      wk.Logger,
		Observer:    wk.Observer,
		Ctx:         wk.Ctx,
	}
}

func (wk *Worker) observe(outcome string) {
	if wk.Observer != nil {
		wk.Observer.ObserveReceipt(outcome)
	}
}
