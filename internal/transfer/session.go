package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/cradoe/remitflow/internal/apperr"
	"github.com/cradoe/remitflow/internal/models"
	"github.com/google/uuid"
)

var errSourceAccount = apperr.New(apperr.CodeNotFound, "source account not found")

// DraftUpdate carries the fields a caller wants to change. Nil fields are left alone.
type DraftUpdate struct {
	SourceAccountID   *string
	Type              *models.TransferType
	Destination       models.Destination
	Amount            *models.Amount
	Purpose           *models.Purpose
	Remarks           *string
	ScheduleDate      *time.Time
	ClearScheduleDate bool
}

type Review struct {
	Request          models.TransferRequest     `json:"request"`
	Destination      models.ResolvedDestination `json:"destination"`
	Quote            models.FeeQuote            `json:"quote"`
	SourceDescriptor string                     `json:"source"`
}

type View struct {
	ID                 string                    `json:"id"`
	State              State                     `json:"state"`
	Request            models.TransferRequest    `json:"request"`
	Review             *Review                   `json:"review,omitempty"`
	ChallengeExpiresAt *time.Time                `json:"otp_expires_at,omitempty"`
	Record             *models.TransactionRecord `json:"record,omitempty"`
	CreatedAt          time.Time                 `json:"created_at"`
	UpdatedAt          time.Time                 `json:"updated_at"`
}

type Session struct {
	mu sync.Mutex

	id        string
	userID    string
	state     State
	request   models.TransferRequest
	review    *Review
	snapshot  string
	challenge *models.VerificationChallenge
	record    *models.TransactionRecord
	createdAt time.Time
	updatedAt time.Time
	touched   atomic.Int64

	svc *Service
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) Record() (*models.TransactionRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record == nil {
		return nil, false
	}
	record := *s.record
	return &record, true
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:        s.id,
		State:     s.state,
		Request:   s.request,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
	}
	if s.review != nil {
		review := *s.review
		v.Review = &review
	}
	if s.challenge != nil && s.state == StateAwaitingVerification {
		expires := s.challenge.ExpiresAt
		v.ChallengeExpiresAt = &expires
	}
	if s.record != nil {
		record := *s.record
		v.Record = &record
	}
	return v
}

// UpdateDraft edits the request. Any edit after review sends the session back to
// Drafting and drops the challenge issued for the old snapshot.
func (s *Session) UpdateDraft(ctx context.Context, u DraftUpdate) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.in(StateDrafting, StateReviewing, StateAwaitingVerification, StateFailed) {
		return s.state, apperr.ErrInvalidTransition
	}

	req := s.request

	if u.SourceAccountID != nil {
		req.SourceAccountID = *u.SourceAccountID
	}
	if u.Type != nil {
		if !u.Type.Valid() {
			return s.state, apperr.ErrInvalidTransferType
		}
		req.Type = *u.Type
	}
	if u.Destination != nil {
		req.Destination = u.Destination
	}
	if u.Amount != nil {
		req.Amount = *u.Amount
	}
	if u.Purpose != nil {
		if !u.Purpose.Valid() {
			return s.state, apperr.ErrInvalidPurpose
		}
		req.Purpose = *u.Purpose
	}
	if u.Remarks != nil {
		if utf8.RuneCountInString(*u.Remarks) > models.MaxRemarksLength {
			return s.state, apperr.ErrInvalidRemarks
		}
		req.Remarks = *u.Remarks
	}
	if u.ClearScheduleDate {
		req.ScheduleDate = nil
	}
	if u.ScheduleDate != nil {
		date := dateOf(*u.ScheduleDate)
		if date.Before(dateOf(s.svc.deps.Now())) {
			return s.state, apperr.ErrInvalidScheduleDate
		}
		req.ScheduleDate = &date
	}

	s.request = req
	s.discardReview(ctx)
	s.moveTo(ctx, StateDrafting)

	return s.state, nil
}

// Review resolves the destination and quotes the request.
func (s *Session) Review(ctx context.Context) (*Review, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.in(StateDrafting, StateReviewing, StateFailed) {
		return nil, s.state, apperr.ErrInvalidTransition
	}

	review, err := s.buildReview(ctx)
	if err != nil {
		// a failed lookup says nothing about the request, so the session stays put
		if apperr.CategoryOf(err) == apperr.CategoryInfrastructure {
			return nil, s.state, err
		}
		s.discardReview(ctx)
		s.moveTo(ctx, StateDrafting)
		return nil, s.state, err
	}

	s.review = review
	s.snapshot = snapshotHash(s.id, s.userID, review.Request, review.Destination, review.Quote)
	s.moveTo(ctx, StateReviewing)

	out := *review
	return &out, s.state, nil
}

func (s *Session) buildReview(ctx context.Context) (*Review, error) {
	req := s.request

	if !req.Amount.IsPositive() {
		return nil, apperr.ErrInvalidAmount
	}
	if !req.Purpose.Valid() {
		return nil, apperr.ErrInvalidPurpose
	}
	if !req.Type.Valid() {
		return nil, apperr.ErrInvalidTransferType
	}

	account, err := s.sourceAccount(ctx)
	if err != nil {
		return nil, err
	}

	dest, err := s.svc.deps.Resolver.Resolve(ctx, s.userID, req.SourceAccountID, req.Type, req.Destination)
	if err != nil {
		return nil, err
	}

	q, err := s.svc.deps.Engine.Quote(ctx, account, req.Type, req.Amount)
	if err != nil {
		return nil, err
	}

	return &Review{
		Request:          req,
		Destination:      dest,
		Quote:            q,
		SourceDescriptor: account.Label + " " + account.MaskedNumber(),
	}, nil
}

func (s *Session) sourceAccount(ctx context.Context) (*models.Account, error) {
	if s.request.SourceAccountID == "" {
		return nil, errSourceAccount
	}

	account, found, err := s.svc.deps.Accounts.GetOne(ctx, s.request.SourceAccountID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.CodeTimeout, apperr.ErrTimeout.Message, err)
		}
		return nil, apperr.Wrap(apperr.CodeStoreUnavailable, apperr.ErrStoreUnavailable.Message, err)
	}
	if !found || account.UserID != s.userID {
		return nil, errSourceAccount
	}
	return account, nil
}

// RequestVerification checks the transaction password and sends an OTP bound to the
// reviewed snapshot. Calling it again while awaiting the code resends.
func (s *Session) RequestVerification(ctx context.Context, password string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.in(StateReviewing, StateAwaitingVerification) || s.review == nil {
		return s.state, apperr.ErrInvalidTransition
	}

	account, err := s.sourceAccount(ctx)
	if err != nil {
		return s.state, err
	}

	// balances and usage may have moved since review
	q, err := s.svc.deps.Engine.Quote(ctx, account, s.review.Request.Type, s.review.Request.Amount)
	if err != nil {
		s.discardReview(ctx)
		s.moveTo(ctx, StateFailed)
		return s.state, err
	}
	s.review.Quote = q
	s.snapshot = snapshotHash(s.id, s.userID, s.review.Request, s.review.Destination, q)

	challenge, err := s.svc.deps.Gate.Issue(ctx, s.userID, s.snapshot, password)
	if err != nil {
		switch apperr.CodeOf(err) {
		case apperr.CodeInvalidCredential, apperr.CodeDeliveryFailed:
			s.discardReview(ctx)
			s.moveTo(ctx, StateFailed)
		}
		return s.state, err
	}

	s.challenge = challenge
	s.moveTo(ctx, StateAwaitingVerification)
	s.svc.audit(ctx, s, "transfer OTP issued")

	return s.state, nil
}

// SubmitOtp verifies code and, on success, commits the transfer through the ledger.
func (s *Session) SubmitOtp(ctx context.Context, code string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAwaitingVerification || s.challenge == nil {
		return s.state, apperr.ErrInvalidTransition
	}

	auth, err := s.svc.deps.Gate.Verify(ctx, s.challenge.ID, code)
	if err != nil {
		switch apperr.CodeOf(err) {
		case apperr.CodeCodeMismatch:
		case apperr.CodeAttemptsExceeded, apperr.CodeExpired, apperr.CodeChallengeNotFound:
			s.challenge = nil
			s.moveTo(ctx, StateReviewing)
		}
		return s.state, err
	}

	// from here on the challenge is spent whatever happens
	s.challenge = nil

	if err := s.svc.deps.Gate.Consume(ctx, auth, s.snapshot); err != nil {
		s.moveTo(ctx, StateReviewing)
		return s.state, err
	}

	record := s.newRecord()
	req := s.review.Request

	recheck := func(account *models.Account) error {
		if account.UserID != s.userID {
			return errSourceAccount
		}
		_, err := s.svc.deps.Engine.Quote(ctx, account, req.Type, req.Amount)
		return err
	}

	if _, err := s.svc.deps.Ledger.Commit(ctx, record, recheck); err != nil {
		if errors.Is(err, apperr.ErrLimitExceededAtCommit) && s.svc.deps.Observer != nil {
			s.svc.deps.Observer.ObserveCommitRace()
		}
		s.svc.deps.Logger.Warn("transfer commit rejected", "session_id", s.id, "code", apperr.CodeOf(err), "error", err.Error())
		s.moveTo(ctx, StateReviewing)
		return s.state, err
	}

	s.record = record
	s.moveTo(ctx, StateCommitted)
	s.svc.deps.Logger.Info("transfer committed", "session_id", s.id, "reference", record.ReferenceNumber, "amount", record.Amount.String())

	if s.svc.deps.Publisher != nil {
		if err := s.svc.deps.Publisher.PublishCommitted(ctx, record); err != nil {
			s.svc.deps.Logger.Error("failed to publish committed transfer", "reference", record.ReferenceNumber, "error", err.Error())
		}
	}

	return s.state, nil
}

// Cancel is idempotent. A committed transfer cannot be cancelled.
func (s *Session) Cancel(ctx context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateCommitted:
		return s.state, apperr.ErrInvalidTransition
	case StateCancelled:
		return s.state, nil
	}

	s.discardReview(ctx)
	s.moveTo(ctx, StateCancelled)

	return s.state, nil
}

func (s *Session) newRecord() *models.TransactionRecord {
	r := s.review
	record := &models.TransactionRecord{
		ID:               uuid.NewString(),
		ReferenceNumber:  s.svc.references.Next(),
		UserID:           s.userID,
		SourceAccountID:  r.Request.SourceAccountID,
		SourceDescriptor: r.SourceDescriptor,
		TransferType:     r.Request.Type,
		DestinationKind:  r.Destination.Kind,
		DestinationRef:   r.Destination.ReferenceID,
		DestinationName:  r.Destination.DisplayName,
		Amount:           r.Request.Amount,
		Fee:              r.Quote.Fee,
		Total:            r.Quote.TotalDebit,
		Rail:             r.Quote.Rail,
		ETA:              r.Quote.ETA,
		Purpose:          r.Request.Purpose,
		Remarks:          sql.NullString{String: r.Request.Remarks, Valid: r.Request.Remarks != ""},
		Status:           models.TransactionCompleted,
		CreatedAt:        s.svc.deps.Now().UTC(),
	}
	if r.Request.ScheduleDate != nil {
		record.ScheduledFor = sql.NullTime{Time: *r.Request.ScheduleDate, Valid: true}
	}
	return record
}

// discardReview forgets the reviewed snapshot and drops any challenge issued for it.
func (s *Session) discardReview(ctx context.Context) {
	if s.snapshot != "" {
		if err := s.svc.deps.Gate.Invalidate(ctx, s.snapshot); err != nil {
			s.svc.deps.Logger.Warn("failed to invalidate challenge", "session_id", s.id, "error", err.Error())
		}
	}
	s.review = nil
	s.snapshot = ""
	s.challenge = nil
}

func (s *Session) moveTo(ctx context.Context, to State) {
	from := s.state
	s.touch()
	if from == to {
		return
	}

	s.state = to
	if s.svc.deps.Observer != nil {
		s.svc.deps.Observer.ObserveTransition(from, to)
	}
	s.svc.audit(ctx, s, fmt.Sprintf("transfer moved from %s to %s", from, to))
}

func (s *Session) touch() {
	s.updatedAt = s.svc.deps.Now().UTC()
	s.touched.Store(s.updatedAt.UnixNano())
}

func (s *Session) lastTouched() time.Time {
	return time.Unix(0, s.touched.Load())
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
