package rpc

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func TestCodec_Registered(t *testing.T) {
	c := encoding.GetCodec(CodecName)
	require.NotNil(t, c)
	assert.Equal(t, CodecName, c.Name())
}

func TestCodec_StructMessages(t *testing.T) {
	in := &WaterSummary{
		Date:            "2025-03-14",
		TotalConsumedMl: 1750,
		GoalMl:          2000,
		PercentOfGoal:   87,
		RemainingMl:     250,
		Events:          []WaterEvent{{Timestamp: time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC), AmountMl: 250}},
	}
	b, err := Codec{}.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"percent_of_goal":87`)

	out := &WaterSummary{}
	require.NoError(t, Codec{}.Unmarshal(b, out))
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_ProtoMessages(t *testing.T) {
	b, err := Codec{}.Marshal(&emptypb.Empty{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(b))

	b, err = Codec{}.Marshal(wrapperspb.String("hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `"hi"`, string(b))

	var s wrapperspb.StringValue
	require.NoError(t, Codec{}.Unmarshal(b, &s))
	assert.Equal(t, "hi", s.GetValue())

	// unknown fields from newer clients are ignored
	require.NoError(t, Codec{}.Unmarshal([]byte(`{"extra":1}`), &emptypb.Empty{}))
}

func TestFullMethodAndPublicMethods(t *testing.T) {
	assert.Equal(t, "/nutriledger.v1.LedgerService/Login", FullMethod(MethodLogin))
	assert.True(t, PublicMethods[FullMethod(MethodPing)])
	assert.False(t, PublicMethods[FullMethod(MethodSetConsumed)])
	assert.Len(t, ServiceDesc.Methods, 26)
}
