package sim

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"
)

var _ = Describe("EventQueue", func() {
	var (
		mockCtrl *gomock.Controller
		queue    *EventQueueImpl
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		queue = NewEventQueue()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should pop events in time order", func() {
		events := make([]*MockEvent, 0, 100)
		for i := 0; i < 100; i++ {
			evt := NewMockEvent(mockCtrl)
			expectEvent(evt, VTimeInSec(rand.Float64()), PhaseUpdate, nil)
			events = append(events, evt)
			queue.Push(evt)
		}

		Expect(queue.Len()).To(Equal(100))

		prev := queue.Pop()
		for queue.Len() > 0 {
			curr := queue.Pop()
			Expect(curr.Time()).To(BeNumerically(">=", prev.Time()))
			prev = curr
		}
	})

	It("should order same-time events by phase", func() {
		end := NewMockEvent(mockCtrl)
		start := NewMockEvent(mockCtrl)
		update := NewMockEvent(mockCtrl)

		expectEvent(end, 1.0, PhaseEnd, nil)
		expectEvent(start, 1.0, PhaseStart, nil)
		expectEvent(update, 1.0, PhaseUpdate, nil)

		queue.Push(end)
		queue.Push(start)
		queue.Push(update)

		Expect(queue.Pop().Phase()).To(Equal(PhaseStart))
		Expect(queue.Pop().Phase()).To(Equal(PhaseUpdate))
		Expect(queue.Pop().Phase()).To(Equal(PhaseEnd))
	})

	It("should peek without removing", func() {
		evt := NewMockEvent(mockCtrl)
		expectEvent(evt, 1.0, PhaseUpdate, nil)

		queue.Push(evt)

		Expect(queue.Peek().Time()).To(BeNumerically("~", 1.0, 1e-12))
		Expect(queue.Len()).To(Equal(1))
	})
})
