package events

import (
	"context"
	"encoding/json"
	"log"
)

// Emit publishes a run event. The default emitter logs; callers embedding
// the pipeline can install their own sink with SetCustomEmitter.
var Emit = logEmitter

func logEmitter(ctx context.Context, name string, evt RunEvent) {
	if evt.RunKey == "" {
		evt.RunKey = RunFromContext(ctx)
	}
	data, err := json.Marshal(evt)
	if err != nil {
		log.Printf("events: failed to marshal %s: %v", name, err)
		return
	}
	log.Printf("%s %s", name, data)
}

// SetCustomEmitter replaces the emitter; nil restores the log default.
func SetCustomEmitter(f func(ctx context.Context, name string, evt RunEvent)) {
	if f == nil {
		Emit = logEmitter
		return
	}
	Emit = func(ctx context.Context, name string, evt RunEvent) {
		if evt.RunKey == "" {
			evt.RunKey = RunFromContext(ctx)
		}
		f(ctx, name, evt)
	}
}
