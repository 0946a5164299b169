package pairing

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Am0lShah/Display-Output/api/types/v1alpha1"
)

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		code := GenerateCode()
		assert.Len(t, code.Value, 6)
		for _, r := range code.Value {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code.Value)
		}
		assert.WithinDuration(t, time.Now(), code.IssuedAt, time.Minute)
	}
}

func TestCodeExpiry(t *testing.T) {
	code := GenerateCode()

	assert.False(t, code.Expired(code.IssuedAt))
	assert.False(t, code.Expired(code.IssuedAt.Add(CodeValidity-time.Second)))
	assert.True(t, code.Expired(code.IssuedAt.Add(CodeValidity)))
	assert.True(t, Code{}.Expired(time.Now()))
}

func TestHandshakePayload(t *testing.T) {
	code := Code{Value: "123456", IssuedAt: time.UnixMilli(1700000000000)}
	payload := Handshake("dev-abc", code)

	assert.Equal(t, "pi_board_device", payload.Type)
	assert.Equal(t, "123456", payload.DeviceCode)
	assert.Equal(t, "dev-abc", payload.DeviceID)
	assert.Equal(t, int64(1700000000000), payload.Timestamp)
}

func TestEncodeHandshake(t *testing.T) {
	code := Code{Value: "000042", IssuedAt: time.UnixMilli(1700000000000)}
	encoded, err := EncodeHandshake(Handshake("dev-abc", code))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(encoded), &decoded))
	assert.Equal(t, "pi_board_device", decoded["type"])
	assert.Equal(t, "000042", decoded["device_code"])
	assert.Equal(t, "dev-abc", decoded["device_id"])
	assert.Equal(t, float64(1700000000000), decoded["timestamp"])
}

func TestTransition(t *testing.T) {
	owner := "acct-1"

	tests := []struct {
		name    string
		current State
		record  *v1alpha1.DeviceRecord
		want    State
	}{
		{name: "claim", current: StateUnpaired, record: &v1alpha1.DeviceRecord{OwnerID: &owner}, want: StatePaired},
		{name: "stay_paired", current: StatePaired, record: &v1alpha1.DeviceRecord{OwnerID: &owner}, want: StatePaired},
		{name: "unlink", current: StatePaired, record: &v1alpha1.DeviceRecord{}, want: StateUnpaired},
		{name: "stay_unpaired", current: StateUnpaired, record: &v1alpha1.DeviceRecord{}, want: StateUnpaired},
		{name: "nil_record", current: StatePaired, record: nil, want: StateUnpaired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.current, tt.record))
		})
	}
}
