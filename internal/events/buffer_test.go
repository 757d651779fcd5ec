package events

import (
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("buffer", Ordered, func() {
	Context("buffer", func() {
		It("add successfully", func() {
			buffer := newBuffer()

			Expect(buffer.PushBack(&message{Kind: BatchAppliedKind, Data: []byte("msg1")})).To(Equal(1))
			Expect(buffer.head).NotTo(BeNil())
			Expect(buffer.tail).NotTo(BeNil())

			Expect(buffer.PushBack(&message{Kind: BatchAppliedKind, Data: []byte("msg2")})).To(Equal(2))
			Expect(buffer.head.Data).To(Equal([]byte("msg1")))
			Expect(buffer.tail.Data).To(Equal([]byte("msg2")))

			Expect(buffer.PushBack(&message{Kind: BatchRejectedKind, Data: []byte("msg3")})).To(Equal(3))
			Expect(buffer.Size()).To(Equal(3))
			Expect(buffer.head.Data).To(Equal([]byte("msg1")))
			Expect(buffer.tail.Data).To(Equal([]byte("msg3")))
		})

		It("pop", func() {
			buffer := newBuffer()

			buffer.PushBack(&message{Kind: BatchAppliedKind, Data: []byte("msg1")})
			buffer.PushBack(&message{Kind: BatchAppliedKind, Data: []byte("msg2")})
			buffer.PushBack(&message{Kind: BatchAppliedKind, Data: []byte("msg3")})
			Expect(buffer.Size()).To(Equal(3))

			m := buffer.Pop()
			Expect(m).NotTo(BeNil())
			Expect(m.Data).To(Equal([]byte("msg1")))
			Expect(buffer.Size()).To(Equal(2))

			m = buffer.Pop()
			Expect(m.Data).To(Equal([]byte("msg2")))

			m = buffer.Pop()
			Expect(m.Data).To(Equal([]byte("msg3")))
			Expect(buffer.Size()).To(Equal(0))
			Expect(buffer.head).To(BeNil())
			Expect(buffer.tail).To(BeNil())

			Expect(buffer.Pop()).To(BeNil())
		})

		It("accepts concurrent writers", func() {
			buffer := newBuffer()

			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					buffer.PushBack(&message{Kind: BatchAppliedKind})
				}()
			}
			wg.Wait()

			Expect(buffer.Size()).To(Equal(50))
		})
	})
})
