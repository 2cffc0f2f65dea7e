package helper

import (
	"fmt"
	"net/http"
	"sync"
)

// ErrorReporter is satisfied by errHandler.ErrorRepository.
type ErrorReporter interface {
	ReportServerError(r *http.Request, err error)
}

type HelperRepository struct {
	baseUrl    string
	WG         *sync.WaitGroup
	errHandler ErrorReporter
}

func New(baseUrl string, wg *sync.WaitGroup, errHandler ErrorReporter) *HelperRepository {
	return &HelperRepository{
		baseUrl:    baseUrl,
		WG:         wg,
		errHandler: errHandler,
	}
}

func (h *HelperRepository) NewEmailData() map[string]any {
	data := map[string]any{
		"BaseURL": h.baseUrl,
	}

	return data
}

// BackgroundTask runs fn on its own goroutine. Errors and panics are reported,
// and the WaitGroup lets shutdown wait for tasks still in flight.
func (h *HelperRepository) BackgroundTask(r *http.Request, fn func() error) {
	h.WG.Add(1)

	go func() {
		defer h.WG.Done()

		defer func() {
			err := recover()
			if err != nil {
				h.report(r, fmt.Errorf("%s", err))
			}
		}()

		err := fn()
		if err != nil {
			h.report(r, err)
		}
	}()
}

func (h *HelperRepository) report(r *http.Request, err error) {
	if h.errHandler != nil {
		h.errHandler.ReportServerError(r, err)
	}
}
