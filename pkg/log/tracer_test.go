package log_test

import (
	"context"
	"errors"

	"github.com/dealerportal/partsfeed/pkg/log"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ = Describe("tracer", func() {
	var logs *observer.ObservedLogs

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		undo := zap.ReplaceGlobals(zap.New(core))
		DeferCleanup(undo)
	})

	It("logs steps and success with the operation fields", func() {
		id := uuid.New()
		ctx := log.ContextWithCorrelationID(context.TODO(), "run-1")

		tracer := log.NewDebugLogger("upload_service").
			WithContext(ctx).
			Operation("upload").
			WithUUID("batch_id", id).
			WithString("type", "supersession").
			Build()

		tracer.Step("parsed").WithInt("rows", 3).Log()
		tracer.Success().WithInt("applied", 3).Log()

		entries := logs.All()
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].LoggerName).To(Equal("upload_service"))
		Expect(entries[0].Level).To(Equal(zapcore.DebugLevel))

		step := entries[0].ContextMap()
		Expect(step["operation"]).To(Equal("upload"))
		Expect(step["correlation_id"]).To(Equal("run-1"))
		Expect(step["batch_id"]).To(Equal(id.String()))
		Expect(step["step"]).To(Equal("parsed"))
		Expect(step["rows"]).To(Equal(int64(3)))

		Expect(entries[1].Message).To(Equal("success"))
		Expect(entries[1].ContextMap()).To(HaveKey("duration"))
	})

	It("logs errors at error level", func() {
		tracer := log.NewDebugLogger("store").Operation("finalize").Build()
		tracer.Error(errors.New("boom")).WithString("step", "commit").Log()

		entries := logs.FilterMessage("error").All()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Level).To(Equal(zapcore.ErrorLevel))
		Expect(entries[0].ContextMap()["error"]).To(Equal("boom"))
		Expect(entries[0].ContextMap()).NotTo(HaveKey("correlation_id"))
	})
})
