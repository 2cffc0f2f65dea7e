package transfer

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ReferenceGenerator hands out TRF<yyyymmddHHMMSS><instance><counter> reference numbers.
// The instance tag is drawn once per generator, so two processes started in the same
// second, or one restarted process, do not reuse each other's counter values.
type ReferenceGenerator struct {
	counter  atomic.Uint64
	instance string
	now      func() time.Time
}

func NewReferenceGenerator(now func() time.Time) *ReferenceGenerator {
	if now == nil {
		now = time.Now
	}
	return &ReferenceGenerator{now: now, instance: instanceTag()}
}

// instanceTag is 8 upper-case hex characters taken from a random UUID.
func instanceTag() string {
	id := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%x", id[:4]))
}

func (g *ReferenceGenerator) Next() string {
	n := g.counter.Add(1)
	return fmt.Sprintf("TRF%s%s%06d", g.now().UTC().Format("20060102150405"), g.instance, n)
}
