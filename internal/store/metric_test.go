package store

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var _ = Describe("statement metrics", func() {
	It("labels statements by their leading keyword", func() {
		Expect(statementVerb("  INSERT INTO batches (id) VALUES ($1)")).To(Equal("insert"))
		Expect(statementVerb("select 1")).To(Equal("select"))
		Expect(statementVerb("")).To(Equal("other"))
	})

	It("counts observed operations", func() {
		before := testutil.ToFloat64(dbOpTotal.WithLabelValues("exec", "update"))
		observeOp("exec", "update", time.Now())
		Expect(testutil.ToFloat64(dbOpTotal.WithLabelValues("exec", "update"))).To(Equal(before + 1))
	})
})
