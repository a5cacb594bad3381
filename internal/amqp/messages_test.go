package amqp

import "testing"

func TestTransactionSyncMessageRoundTrip(t *testing.T) {
	msg := NewTransactionSyncMessage("tx-123")
	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := TransactionSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.ID != "tx-123" || back.Deleted {
		t.Fatalf("round trip mismatch: %+v", back)
	}

	del := NewTransactionDeleteMessage("tx-123")
	if !del.Deleted {
		t.Fatal("delete message should carry the deleted flag")
	}
}

func TestTransactionSyncMessageBadJSON(t *testing.T) {
	if _, err := TransactionSyncMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
