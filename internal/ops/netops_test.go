package ops

import (
	"context"
	"strings"
	"syscall"
	"testing"

	gnet "github.com/shirou/gopsutil/v3/net"
)

func TestPing_InvalidCount(t *testing.T) {
	tests := []string{"zero", "-1", "0", "abc"}

	for _, count := range tests {
		t.Run(count, func(t *testing.T) {
			_, err := Ping(context.Background(), []string{"localhost", count}, "")
			if kind := handlerKind(t, err); kind != KindInvalidArgument {
				t.Errorf("Ping count %q kind = %v, want KindInvalidArgument", count, kind)
			}
		})
	}
}

func TestNetstat_Header(t *testing.T) {
	result, err := Netstat(context.Background(), nil, "")
	if err != nil {
		t.Fatalf("Netstat() unexpected error: %v", err)
	}
	if !strings.HasPrefix(result.Stdout, "Proto  Local Address") {
		t.Errorf("Netstat() header missing: %q", strings.Split(result.Stdout, "\n")[0])
	}
}

func TestProtoName(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want string
	}{
		{"tcp", syscall.SOCK_STREAM, "tcp"},
		{"udp", syscall.SOCK_DGRAM, "udp"},
		{"other", 99, "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := protoName(tt.in); got != tt.want {
				t.Errorf("protoName(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddrString(t *testing.T) {
	if got := addrString(gnet.Addr{}); got != "*" {
		t.Errorf("addrString(empty) = %q, want *", got)
	}
	if got := addrString(gnet.Addr{IP: "127.0.0.1", Port: 8080}); got != "127.0.0.1:8080" {
		t.Errorf("addrString() = %q, want 127.0.0.1:8080", got)
	}
}
