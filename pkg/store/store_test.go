package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func received(sub *Subscription) bool {
	select {
	case _, ok := <-sub.C():
		return ok
	default:
		return false
	}
}

func TestValue(t *testing.T) {
	t.Run("SetNotifiesSubscribers", func(t *testing.T) {
		v := NewValue("")
		sub1 := v.Subscribe()
		sub2 := v.Subscribe()
		defer sub1.Close()
		defer sub2.Close()

		v.Set("phone")

		assert.Equal(t, "phone", v.Get())
		assert.True(t, received(sub1))
		assert.True(t, received(sub2))
	})

	t.Run("EqualSuppressesNotification", func(t *testing.T) {
		v := NewValue("laptop", WithEqual(func(a, b string) bool {
			return a == b
		}))
		sub := v.Subscribe()
		defer sub.Close()

		v.Set("laptop")
		assert.False(t, received(sub))

		v.Set("phone")
		assert.True(t, received(sub))
	})

	t.Run("Update", func(t *testing.T) {
		v := NewValue(1)
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v.Update(func(n int) int { return n + 1 })
			}()
		}
		wg.Wait()
		assert.Equal(t, 51, v.Get())
	})

	t.Run("Close", func(t *testing.T) {
		v := NewValue(0)
		sub := v.Subscribe()
		require.Equal(t, 1, v.subscribers())

		sub.Close()
		sub.Close()
		assert.Equal(t, 0, v.subscribers())

		v.Set(1)
		_, ok := <-sub.C()
		assert.False(t, ok)
	})
}
