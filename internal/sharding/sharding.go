package sharding

import (
	"hash/fnv"
	"strconv"

	"github.com/segmentio/kafka-go"
)

// CustomerIDHeader carries the customer id of an order event.
const CustomerIDHeader = "customer-id"

// ShardRouter maps ids onto a fixed number of shards. As a kafka.Balancer
// it routes every event of one customer to the same partition.
type ShardRouter struct {
	ShardCount int // Number of shards; 0 means "use the partition count"
}

func NewShardRouter(shardCount int) *ShardRouter {
	return &ShardRouter{ShardCount: shardCount}
}

func (r *ShardRouter) GetShard(id int) int {
	if r.ShardCount <= 0 {
		return 0
	}
	return id % r.ShardCount
}

// Balance implements kafka.Balancer.
func (r *ShardRouter) Balance(msg kafka.Message, partitions ...int) int {
	if len(partitions) == 0 {
		return 0
	}
	router := r
	if r.ShardCount <= 0 || r.ShardCount > len(partitions) {
		router = &ShardRouter{ShardCount: len(partitions)}
	}
	return partitions[router.GetShard(routingID(msg))]
}

// routingID prefers the customer header and falls back to a hash of the
// message key.
func routingID(msg kafka.Message) int {
	for _, h := range msg.Headers {
		if h.Key != CustomerIDHeader {
			continue
		}
		if id, err := strconv.Atoi(string(h.Value)); err == nil && id >= 0 {
			return id
		}
	}
	hash := fnv.New32a()
	_, _ = hash.Write(msg.Key)
	return int(hash.Sum32() & 0x7fffffff)
}
