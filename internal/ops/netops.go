package ops

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"syscall"

	gnet "github.com/shirou/gopsutil/v3/net"
)

// MaxNetstatRows caps the connection listing.
const MaxNetstatRows = 50

// defaultPingCount keeps ping bounded even without the ctx deadline.
const defaultPingCount = 4

// Ipconfig lists network interfaces with their hardware and IP addresses.
func Ipconfig(ctx context.Context, _ []string, _ string) (Result, error) {
	ifaces, err := gnet.InterfacesWithContext(ctx)
	if err != nil {
		return Result{}, osError("ipconfig", err)
	}

	var sb strings.Builder
	for i, iface := range ifaces {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s:\n", iface.Name)
		if iface.HardwareAddr != "" {
			fmt.Fprintf(&sb, "  MAC: %s\n", iface.HardwareAddr)
		}
		for _, addr := range iface.Addrs {
			fmt.Fprintf(&sb, "  Address: %s\n", addr.Addr)
		}
	}
	if sb.Len() == 0 {
		return ok("No network interfaces found"), nil
	}
	return ok(strings.TrimRight(sb.String(), "\n")), nil
}

// Netstat formats a snapshot of inet connections.
func Netstat(ctx context.Context, _ []string, _ string) (Result, error) {
	conns, err := gnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return Result{}, osError("netstat", err)
	}

	var sb strings.Builder
	sb.WriteString("Proto  Local Address           Remote Address          Status")
	truncated := false
	for i, c := range conns {
		if i >= MaxNetstatRows {
			truncated = true
			break
		}
		fmt.Fprintf(&sb, "\n%-6s %-23s %-23s %s",
			protoName(c.Type), addrString(c.Laddr), addrString(c.Raddr), c.Status)
	}
	if truncated {
		fmt.Fprintf(&sb, "\n[Truncated: showing first %d of %d connections]", MaxNetstatRows, len(conns))
	}
	return ok(sb.String()), nil
}

// Ping spawns the system ping with a fixed probe count and captures its
// output. The ctx deadline bounds the child; a dead host is reported in
// the Result, not as a handler fault.
func Ping(ctx context.Context, args []string, _ string) (Result, error) {
	host := args[0]
	count := defaultPingCount
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return Result{}, invalidArgument("ping", fmt.Sprintf("invalid count '%s'", args[1]))
		}
		count = n
	}

	countFlag := "-c"
	if runtime.GOOS == "windows" {
		countFlag = "-n"
	}

	if _, err := exec.LookPath("ping"); err != nil {
		return Result{}, notFound("ping", "ping executable")
	}

	cmd := exec.CommandContext(ctx, "ping", countFlag, strconv.Itoa(count), host)
	output, err := cmd.CombinedOutput()

	if ctx.Err() == context.DeadlineExceeded {
		return Result{}, timeout("ping")
	}
	if err != nil {
		exitCode := 1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return Result{
			Stderr:     strings.TrimSpace(string(output)) + "\nping failed: " + err.Error(),
			ExitStatus: exitCode,
		}, nil
	}
	return ok(strings.TrimSpace(string(output))), nil
}

func protoName(socketType uint32) string {
	switch socketType {
	case syscall.SOCK_STREAM:
		return "tcp"
	case syscall.SOCK_DGRAM:
		return "udp"
	default:
		return "raw"
	}
}

func addrString(a gnet.Addr) string {
	if a.IP == "" {
		return "*"
	}
	return fmt.Sprintf("%s:%d", a.IP, a.Port)
}
