package core

import (
	"context"
	"errors"
	"testing"
)

func TestJob_Lifecycle(t *testing.T) {
	var got []JobRecord
	ctx := WithRequestMeta(context.Background(), RequestMeta{IP: "192.168.1.5", UserAgent: "curl/8.0"})
	j := newJob(ctx, ImportRequest{SessionID: "s1", FileName: "autos.xlsx"}, ModeProgress,
		func(_ context.Context, rec JobRecord) { got = append(got, rec) })

	if j.ID() == "" {
		t.Fatal("job id should be generated")
	}
	if j.State() != JobStarted {
		t.Errorf("initial state = %q", j.State())
	}

	if err := j.start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := j.complete(ctx, ImportResult{Total: 3, Exitosos: 2, Fallidos: 1, Errores: []string{"Fila 2: x"}}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("hook called %d times, want 2", len(got))
	}
	if got[0].State != JobRunning || got[0].Terminal() {
		t.Errorf("first record = %+v", got[0])
	}

	final := got[1]
	if final.State != JobCompleted || !final.Terminal() || final.FinishedAt.IsZero() {
		t.Errorf("final record = %+v", final)
	}
	if final.Total != 3 || final.Exitosos != 2 || final.Fallidos != 1 || len(final.Errores) != 1 {
		t.Errorf("final counts = %+v", final)
	}
	if final.IPAddress != "192.168.1.5" || final.UserAgent != "curl/8.0" || final.FileName != "autos.xlsx" {
		t.Errorf("request metadata = %+v", final)
	}
}

func TestJob_FailFromStarted(t *testing.T) {
	var final JobRecord
	j := newJob(context.Background(), ImportRequest{JobID: "fixed"}, ModeDirect,
		func(_ context.Context, rec JobRecord) { final = rec })

	if err := j.fail(context.Background(), ErrEmptyFile, ImportResult{}); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if final.ID != "fixed" || final.State != JobFailed || final.Error != "empty file" {
		t.Errorf("final record = %+v", final)
	}
}

func TestJob_InvalidTransition(t *testing.T) {
	j := newJob(context.Background(), ImportRequest{}, ModeProgress, nil)

	if err := j.complete(context.Background(), ImportResult{}); err == nil {
		t.Error("complete from started should fail")
	}
	if err := j.start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := j.fail(context.Background(), errors.New("boom"), ImportResult{}); err != nil {
		t.Fatal(err)
	}
	if err := j.start(context.Background()); err == nil {
		t.Error("run from failed should fail")
	}
}
