package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gobox-app/internal/broker/messages"
	"github.com/gobox-app/internal/cache"
	"github.com/gobox-app/internal/constants"
	"github.com/gobox-app/internal/queue"

	"github.com/hibiken/asynq"
)

type capturedMessage struct {
	topic string
	key   string
	value []byte
}

type capturePublisher struct {
	messages []capturedMessage
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, topic string, key, value []byte) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, capturedMessage{topic: topic, key: string(key), value: value})
	return nil
}

func TestRelayCreatedPublishesRecord(t *testing.T) {
	repo := &stubDeliveryRepo{}
	seedRequest(t, repo, "GB-1", 4, "Books", constants.DeliveryStatusConfirmed, fixedNow)
	pub := &capturePublisher{}
	svc := NewDispatchService(repo, pub, "delivery.request.created")

	if err := svc.RelayCreated(context.Background(), queue.DeliveryRequestCreatedPayload{RequestNo: "GB-1", UserID: 4}); err != nil {
		t.Fatalf("relay failed: %v", err)
	}
	if len(pub.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.messages))
	}
	msg := pub.messages[0]
	if msg.topic != "delivery.request.created" || msg.key != "GB-1" {
		t.Fatalf("unexpected message routing %+v", msg)
	}
	var event messages.DeliveryRequestCreated
	if err := json.Unmarshal(msg.value, &event); err != nil {
		t.Fatalf("decode event failed: %v", err)
	}
	if event.BoxType != "Books" || event.UserID != 4 || event.Status != constants.DeliveryStatusConfirmed {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestRelayCreatedEdgeCases(t *testing.T) {
	repo := &stubDeliveryRepo{}
	seedRequest(t, repo, "GB-1", 4, "Books", constants.DeliveryStatusConfirmed, fixedNow)

	svc := NewDispatchService(repo, &capturePublisher{}, "topic")
	if err := svc.RelayCreated(context.Background(), queue.DeliveryRequestCreatedPayload{}); !errors.Is(err, ErrDeliveryRequestNoEmpty) {
		t.Fatalf("expected ErrDeliveryRequestNoEmpty, got %v", err)
	}
	if err := svc.RelayCreated(context.Background(), queue.DeliveryRequestCreatedPayload{RequestNo: "missing"}); err != nil {
		t.Fatalf("missing request should be skipped, got %v", err)
	}

	disabled := NewDispatchService(repo, nil, "topic")
	if err := disabled.RelayCreated(context.Background(), queue.DeliveryRequestCreatedPayload{RequestNo: "GB-1"}); err != nil {
		t.Fatalf("relay without publisher should be a no-op, got %v", err)
	}

	failing := NewDispatchService(repo, &capturePublisher{err: errors.New("broker down")}, "topic")
	if err := failing.RelayCreated(context.Background(), queue.DeliveryRequestCreatedPayload{RequestNo: "GB-1"}); err == nil {
		t.Fatalf("expected publish error to be returned for retry")
	}
}

func TestApplyStatusUpdate(t *testing.T) {
	cache.Use(nil, "")
	repo := &stubDeliveryRepo{}
	seedRequest(t, repo, "GB-1", 4, "Books", constants.DeliveryStatusConfirmed, fixedNow)
	svc := NewDispatchService(repo, nil, "")

	at := fixedNow.Add(time.Hour)
	body, _ := json.Marshal(messages.DeliveryStatusUpdated{RequestNo: "GB-1", Status: constants.DeliveryStatusInTransit, StatusAt: &at})
	if err := svc.ApplyStatusUpdate(context.Background(), []byte("GB-1"), body); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	record, _ := repo.GetByRequestNo("GB-1")
	if record.Status != constants.DeliveryStatusInTransit || !record.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected record after update %+v", record)
	}

	// 单号缺省时回退到消息 key
	body, _ = json.Marshal(messages.DeliveryStatusUpdated{Status: constants.DeliveryStatusDelivered})
	if err := svc.ApplyStatusUpdate(context.Background(), []byte("GB-1"), body); err != nil {
		t.Fatalf("apply with key fallback failed: %v", err)
	}
	record, _ = repo.GetByRequestNo("GB-1")
	if record.Status != constants.DeliveryStatusDelivered {
		t.Fatalf("expected Delivered, got %s", record.Status)
	}
}

func TestApplyStatusUpdateSkipsBadMessages(t *testing.T) {
	repo := &stubDeliveryRepo{}
	svc := NewDispatchService(repo, nil, "")

	cases := [][]byte{
		[]byte("not json"),
		[]byte(`{"request_no":"GB-1"}`),
		[]byte(`{"request_no":"unknown","status":"Delivered"}`),
	}
	for _, body := range cases {
		if err := svc.ApplyStatusUpdate(context.Background(), nil, body); err != nil {
			t.Fatalf("%s: expected skip, got %v", body, err)
		}
	}
}

func TestRequeueConfirmed(t *testing.T) {
	repo := &stubDeliveryRepo{}
	seedRequest(t, repo, "GB-OLD", 1, "Books", constants.DeliveryStatusConfirmed, fixedNow.Add(-48*time.Hour))
	seedRequest(t, repo, "GB-1", 1, "Books", constants.DeliveryStatusConfirmed, fixedNow.Add(-time.Hour))
	seedRequest(t, repo, "GB-2", 2, "Lunch", constants.DeliveryStatusInTransit, fixedNow.Add(-time.Hour))
	svc := NewDispatchService(repo, nil, "")

	q := &recordingQueue{}
	n, err := svc.RequeueConfirmed(context.Background(), q, fixedNow.Add(-24*time.Hour), 50)
	if err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	if n != 1 || len(q.payloads) != 1 || q.payloads[0].RequestNo != "GB-1" || q.payloads[0].UserID != 1 {
		t.Fatalf("unexpected requeue result n=%d payloads=%+v", n, q.payloads)
	}

	if n, err := svc.RequeueConfirmed(context.Background(), nil, fixedNow.Add(-24*time.Hour), 50); err != nil || n != 0 {
		t.Fatalf("nil queue should be a no-op, got n=%d err=%v", n, err)
	}

	failing := &recordingQueue{err: errors.New("redis down")}
	if n, err := svc.RequeueConfirmed(context.Background(), failing, fixedNow.Add(-24*time.Hour), 50); err != nil || n != 0 {
		t.Fatalf("enqueue failures should be skipped, got n=%d err=%v", n, err)
	}
}

// dedupQueue 按单号去重，重复入队返回 ErrAlreadyQueued
type dedupQueue struct {
	seen map[string]bool
}

func (q *dedupQueue) EnqueueDeliveryRequestCreated(payload queue.DeliveryRequestCreatedPayload, _ ...asynq.Option) error {
	if q.seen[payload.RequestNo] {
		return queue.ErrAlreadyQueued
	}
	q.seen[payload.RequestNo] = true
	return nil
}

func TestRequeueConfirmedCountsOnlyNewTasks(t *testing.T) {
	repo := &stubDeliveryRepo{}
	seedRequest(t, repo, "GB-1", 1, "Books", constants.DeliveryStatusConfirmed, fixedNow.Add(-time.Hour))
	seedRequest(t, repo, "GB-2", 1, "Lunch", constants.DeliveryStatusConfirmed, fixedNow.Add(-time.Hour))
	svc := NewDispatchService(repo, nil, "")
	q := &dedupQueue{seen: map[string]bool{"GB-1": true}}

	n, err := svc.RequeueConfirmed(context.Background(), q, fixedNow.Add(-24*time.Hour), 50)
	if err != nil || n != 1 {
		t.Fatalf("only GB-2 is new, got n=%d err=%v", n, err)
	}
	n, err = svc.RequeueConfirmed(context.Background(), q, fixedNow.Add(-24*time.Hour), 50)
	if err != nil || n != 0 {
		t.Fatalf("second sweep should requeue nothing, got n=%d err=%v", n, err)
	}
}
