// Committed transfers are announced on the transfer.committed topic.
// The receipt worker mails the sender a summary using the contact on their credential.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cradoe/remitflow/internal/stream"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

const receiptLookupTimeout = 3 * time.Second

func (wk *Worker) ReceiptWorker() error {
	consumer, err := wk.KafkaStream.CreateConsumer(&stream.StreamConsumer{
		GroupId: transferReceiptGroupID,
		Topic:   stream.TransferCommittedTopic,
	})
	if err != nil {
		return fmt.Errorf("create receipt consumer: %w", err)
	}
	defer consumer.Close()

	for {
		select {
		case <-wk.Ctx.Done():
			wk.Logger.Info("receipt worker received cancellation signal, shutting down")
			return nil
		default:
			event := consumer.Poll(100)
			switch e := event.(type) {
			case *kafka.Message:
				if err := wk.sendReceipt(e.Value); err != nil {
					wk.Logger.Error("failed to send receipt", "key", string(e.Key), "error", err.Error())
				}

				// receipts are best effort; a failed one is not redelivered
				if _, err := consumer.CommitMessage(e); err != nil {
					wk.Logger.Error("failed to commit receipt offset", "error", err.Error())
				}
			case kafka.Error:
				wk.Logger.Error("kafka error", "code", e.Code().String(), "error", e.Error())
			case *kafka.AssignedPartitions:
				consumer.Assign(e.Partitions)
			case *kafka.RevokedPartitions:
				consumer.Unassign()
			}
		}
	}
}

func (wk *Worker) sendReceipt(payload []byte) error {
	var event stream.TransferCommitted
	if err := json.Unmarshal(payload, &event); err != nil {
		wk.observe("skipped")
		return fmt.Errorf("decode transfer event: %w", err)
	}

	ctx, cancel := context.WithTimeout(wk.Ctx, receiptLookupTimeout)
	defer cancel()

	credential, found, err := wk.Credentials.GetOne(ctx, event.UserID)
	if err != nil {
		wk.observe("failed")
		return err
	}
	if !found || credential.Contact == "" {
		wk.observe("skipped")
		wk.Logger.Warn("no contact for receipt", "user_id", event.UserID, "reference", event.ReferenceNumber)
		return nil
	}

	data := wk.Helper.NewEmailData()
	data["ReferenceNumber"] = event.ReferenceNumber
	data["DestinationName"] = event.DestinationName
	data["SourceDescriptor"] = event.SourceDescriptor
	data["Amount"] = event.Amount
	data["Fee"] = event.Fee
	data["Total"] = event.Total
	data["Rail"] = string(event.Rail)
	data["ETA"] = event.ETA
	data["Purpose"] = event.Purpose.Label()
	if event.ScheduledFor != nil {
		data["ScheduledFor"] = event.ScheduledFor.Format("02 Jan 2006")
	}

	if err := wk.Mailer.Send(credential.Contact, data, "receipt.tmpl"); err != nil {
		wk.observe("failed")
		return err
	}

	wk.observe("sent")
	wk.Logger.Info("receipt sent", "reference", event.ReferenceNumber)
	return nil
}
