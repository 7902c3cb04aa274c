package futarchy

import "github.com/LukasDeco/meta-dao-frontend/lib/event"

var eventEmitter *event.EventEmitter = nil

func EventEmitter() *event.EventEmitter {
	if eventEmitter == nil {
		eventEmitter = event.CreateEventEmitter()
	}
	return eventEmitter
}
