package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_PublishOrderAndUnsubscribe(t *testing.T) {
	var r Registry[int]
	var got []string

	unsubA := r.Subscribe(func(v int) { got = append(got, "a") })
	r.Subscribe(func(v int) { got = append(got, "b") })

	r.Publish(1)
	assert.Equal(t, []string{"a", "b"}, got)

	unsubA()
	unsubA()
	got = nil
	r.Publish(2)
	assert.Equal(t, []string{"b"}, got)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_SubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	var r Registry[string]
	calls := 0

	var unsub func()
	unsub = r.Subscribe(func(string) {
		calls++
		unsub()
	})

	r.Publish("x")
	r.Publish("y")
	assert.Equal(t, 1, calls)
}
