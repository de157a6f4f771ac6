package coverage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildBucketGroupFixedOrder(t *testing.T) {
	group := BuildBucketGroup("daily", map[string]Number{
		">48h":   7,
		"<=24h":  120,
		"24-48h": 3,
		"none":   1,
	})

	require.Equal(t, "daily", group.Interval)
	require.Equal(t, "Daily bars", group.Title)
	require.Equal(t, []Bucket{
		{Label: "<=24h", Count: 120},
		{Label: "24-48h", Count: 3},
		{Label: ">48h", Count: 7},
		{Label: "none", Count: 1},
	}, group.Buckets)
}

func TestBuildBucketGroupMissingLabelsDefaultToZero(t *testing.T) {
	group := BuildBucketGroup("m5", map[string]Number{"<=24h": 42})

	require.Equal(t, "5m bars", group.Title)
	require.Len(t, group.Buckets, 4)
	require.Equal(t, 42, group.Buckets[0].Count)
	for _, bucket := range group.Buckets[1:] {
		require.Zero(t, bucket.Count)
	}
}

func TestBuildBucketGroupNilMap(t *testing.T) {
	group := BuildBucketGroup("daily", nil)

	require.Len(t, group.Buckets, 4)
	for _, bucket := range group.Buckets {
		require.Zero(t, bucket.Count)
	}
}

func TestNumberCoercion(t *testing.T) {
	var payload struct {
		A Number  `json:"a"`
		B Number  `json:"b"`
		C Number  `json:"c"`
		D *Number `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":5,"b":"7.5","c":"not-a-number"}`), &payload))

	require.Equal(t, Number(5), payload.A)
	require.Equal(t, Number(7.5), payload.B)
	require.Zero(t, payload.C)
	require.Nil(t, payload.D)
	require.Zero(t, payload.D.Int())
}
