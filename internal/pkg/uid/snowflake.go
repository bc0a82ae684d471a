package uid

import (
	"crypto/sha256"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates sortable int64 IDs. The node number is derived from
// /etc/machine-id (hostname as fallback) so replicas pick disjoint ranges
// without coordination.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake constructs a Snowflake generator.
func NewSnowflake() (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber())
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

// Generate returns a new int64 ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func nodeNumber() int64 {
	src := ""
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		src = strings.TrimSpace(string(b))
	}
	if src == "" {
		if h, err := os.Hostname(); err == nil {
			src = strings.TrimSpace(h)
		}
	}

	sum := sha256.Sum256([]byte(src))
	// snowflake node numbers are 10 bits
	return int64(sum[0])<<2 | int64(sum[1])>>6
}
