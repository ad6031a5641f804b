package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UnboundedBuffer", func() {
	var buf *UnboundedBuffer

	BeforeEach(func() {
		buf = NewUnboundedBuffer("DQ")
	})

	It("never refuses a push", func() {
		for i := 0; i < 1000; i++ {
			buf.Push(i)
		}
		Expect(buf.Size()).To(Equal(1000))
		Expect(buf.Peek()).To(Equal(0))
	})

	It("pops in FIFO order", func() {
		buf.Push(1)
		buf.Push(2)

		Expect(buf.Peek()).To(Equal(1))
		Expect(buf.Pop()).To(Equal(1))
		Expect(buf.Size()).To(Equal(1))
		Expect(buf.Pop()).To(Equal(2))
		Expect(buf.Pop()).To(BeNil())
	})

	It("should clear", func() {
		buf.Push(2)
		buf.Clear()
		Expect(buf.Size()).To(Equal(0))
		Expect(buf.Peek()).To(BeNil())
	})

	It("should invoke hooks on push and pop", func() {
		var seen []*HookPos
		buf.AcceptHook(hookFunc(func(ctx HookCtx) {
			seen = append(seen, ctx.Pos)
		}))

		buf.Push(1)
		buf.Pop()

		Expect(seen).To(Equal([]*HookPos{HookPosBufPush, HookPosBufPop}))
	})
})

type hookFunc func(ctx HookCtx)

func (f hookFunc) Func(ctx HookCtx) { f(ctx) }
