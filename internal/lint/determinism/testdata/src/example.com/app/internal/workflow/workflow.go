package workflow

import (
	crand "crypto/rand"
	"math/rand/v2"
	"time"
)

const wait = time.Second

func bad() {
	_ = time.Now()     // want `time.Now is non-deterministic in workflow code; use workflow.Now`
	time.Sleep(wait)   // want `time.Sleep is non-deterministic in workflow code; use workflow.Sleep`
	<-time.After(wait) // want `time.After is non-deterministic in workflow code; use workflow.NewTimer`
	_ = rand.IntN(10)  // want `math/rand/v2.IntN is non-deterministic in workflow code; use an activity or workflow.SideEffect`
	_ = crand.Text()   // want `crypto/rand.Text is non-deterministic in workflow code; use an activity or workflow.SideEffect`
	go func() {}()     // want `go statement in workflow code; use workflow.Go`
}

func fine(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
