package node

import (
	"os"
	"sync"

	"github.com/google/uuid"
)

// Node describes the running gaitbase instance.
type Node struct {
	ID         string `json:"id"`
	Hostname   string `json:"hostname"`
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
}

// Set at build time with -ldflags "-X gaitbase/internal/infra/node.Version=...".
var Version = "development"
var CommitHash = "unknown"

var (
	nodeID       string
	nodeIDOnce   sync.Once
	hostname     string
	hostnameOnce sync.Once
)

func GetNodeInfo() *Node {
	return &Node{
		ID:         getNodeID(),
		Hostname:   getHostname(),
		Version:    Version,
		CommitHash: CommitHash,
	}
}

func getNodeID() string {
	nodeIDOnce.Do(func() {
		nodeID = uuid.New().String()
	})
	return nodeID
}

func getHostname() string {
	hostnameOnce.Do(func() {
		name, err := os.Hostname()
		if err != nil || name == "" {
			name = "localhost"
		}
		hostname = name
	})
	return hostname
}
