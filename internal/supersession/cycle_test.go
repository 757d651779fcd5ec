package supersession_test

import (
	"github.com/dealerportal/partsfeed/internal/supersession"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("cycle detector", func() {
	edge := func(o, n string) supersession.Edge {
		return supersession.Edge{OldPartNo: o, NewPartNo: n}
	}

	Context("against persisted edges", func() {
		existing := []supersession.Edge{edge("A", "B"), edge("B", "C")}

		It("rejects an edge closing a chain", func() {
			rejected := supersession.DetectCycles(existing, []supersession.Edge{edge("C", "A")})
			Expect(rejected).To(HaveKey(0))
		})

		It("accepts an independent edge next to a rejected one", func() {
			rejected := supersession.DetectCycles(existing, []supersession.Edge{edge("C", "A"), edge("D", "E")})
			Expect(rejected).To(HaveLen(1))
			Expect(rejected).To(HaveKey(0))
			Expect(rejected).NotTo(HaveKey(1))
		})

		It("rejects an edge that reverses an existing one", func() {
			rejected := supersession.DetectCycles(
				[]supersession.Edge{edge("A", "B")},
				[]supersession.Edge{edge("B", "A")},
			)
			Expect(rejected).To(HaveLen(1))
			Expect(rejected).To(HaveKey(0))
		})

		It("accepts an unrelated edge", func() {
			rejected := supersession.DetectCycles(
				[]supersession.Edge{edge("A", "B")},
				[]supersession.Edge{edge("C", "D")},
			)
			Expect(rejected).To(BeEmpty())
		})

		It("follows long chains", func() {
			rejected := supersession.DetectCycles(
				[]supersession.Edge{edge("A", "B"), edge("B", "C"), edge("C", "D")},
				[]supersession.Edge{edge("X", "A"), edge("D", "A")},
			)
			Expect(rejected).To(HaveLen(1))
			Expect(rejected).To(HaveKey(1))
		})

		It("accepts edges that only share a target", func() {
			rejected := supersession.DetectCycles(
				[]supersession.Edge{edge("A", "C")},
				[]supersession.Edge{edge("B", "C"), edge("D", "C")},
			)
			Expect(rejected).To(BeEmpty())
		})
	})

	Context("within a batch", func() {
		It("rejects the edge that closes the cycle in file order", func() {
			rejected := supersession.DetectCycles(nil, []supersession.Edge{
				edge("A", "B"),
				edge("B", "C"),
				edge("C", "A"),
			})
			Expect(rejected).To(HaveLen(1))
			Expect(rejected).To(HaveKey(2))
		})

		It("does not add rejected edges to the graph", func() {
			rejected := supersession.DetectCycles(nil, []supersession.Edge{
				edge("A", "B"),
				edge("B", "A"),
				edge("C", "B"),
			})
			Expect(rejected).To(HaveLen(1))
			Expect(rejected).To(HaveKey(1))
		})

		It("treats a self loop as a cycle", func() {
			rejected := supersession.DetectCycles(nil, []supersession.Edge{edge("A", "A")})
			Expect(rejected).To(HaveKey(0))
		})

		It("returns nothing for an empty batch", func() {
			Expect(supersession.DetectCycles([]supersession.Edge{edge("A", "B")}, nil)).To(BeEmpty())
		})
	})
})
