// +build linux

// Package linuxsock is the reference Linux transport for gatt.Handler: a
// connection-oriented L2CAP channel opened directly against BTPROTO_L2CAP,
// in the same raw-syscall style as the HCI user channel socket this
// package is modelled on.
package linuxsock

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/shimmeringbits/gattle/eui48"
	"github.com/shimmeringbits/gattle/gatt"
)

// ATT fixed channel CID [Vol 3, Part F, 2.1].
const attCID = 4

// Address-type tags for struct sockaddr_l2's l2_bdaddr_type field.
// x/sys/unix does not export these; <bluetooth/bluetooth.h> defines them.
const (
	bdaddrBREDR    = 0x00
	bdaddrLEPublic = 0x01
	bdaddrLERandom = 0x02
)

// pollTimeoutMs bounds a single poll() call inside Read, so a Read loop
// can notice a closed fd promptly without relying on SO_RCVTIMEO racing
// against Close's shutdown.
const pollTimeoutMs = 500

// sockaddrL2 mirrors struct sockaddr_l2 from <bluetooth/l2cap.h>. x/sys/unix
// has no built-in Sockaddr type for AF_BLUETOOTH/BTPROTO_L2CAP, so the
// layout is packed by hand and passed directly to the connect(2) syscall.
type sockaddrL2 struct {
	family   uint16
	psm      uint16
	addr     [6]byte
	cid      uint16
	addrType uint8
	_        uint8 // pad to 2-byte alignment
}

func addressTypeByte(t eui48.AddressType) uint8 {
	if t == eui48.LERandom {
		return bdaddrLERandom
	}
	return bdaddrLEPublic
}

// conn is a connected L2CAP socket implementing gatt.Conn.
type conn struct {
	fd   int
	peer eui48.EUI48

	rmu sync.Mutex
	wmu sync.Mutex

	closeOnce sync.Once
	closed    chan struct{}
}

// Dial opens an LE L2CAP connection to addr's ATT fixed channel, bound to
// the local adapter identified by device (HCI device index, or -1 for the
// kernel's default adapter).
func Dial(device int, addr eui48.EUI48, addrType eui48.AddressType) (gatt.Conn, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_SEQPACKET, unix.BTPROTO_L2CAP)
	if err != nil {
		return nil, fmt.Errorf("linuxsock: socket: %w", err)
	}

	if device >= 0 {
		if err := bindLocal(fd, device); err != nil {
			unix.Close(fd)
			return nil, err
		}
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("linuxsock: set nonblock: %w", err)
	}

	sa := sockaddrL2{
		family:   unix.AF_BLUETOOTH,
		psm:      0,
		addr:     reversed(addr),
		cid:      attCID,
		addrType: addressTypeByte(addrType),
	}
	if err := rawConnect(fd, &sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("linuxsock: connect %s: %w", addr, err)
	}

	return &conn{fd: fd, peer: addr, closed: make(chan struct{})}, nil
}

// bindLocal binds fd to the adapter with the given HCI device index so
// the kernel routes the connection through it rather than a default one.
func bindLocal(fd, device int) error {
	bdaddr, err := hciDevAddr(device)
	if err != nil {
		return err
	}
	sa := sockaddrL2{family: unix.AF_BLUETOOTH, addr: bdaddr}
	if err := rawBind(fd, &sa); err != nil {
		return fmt.Errorf("linuxsock: bind hci%d: %w", device, err)
	}
	return nil
}

func rawConnect(fd int, sa *sockaddrL2) error {
	_, _, errno := unix.Syscall(unix.SYS_CONNECT, uintptr(fd), uintptr(unsafe.Pointer(sa)), unsafe.Sizeof(*sa))
	if errno != 0 && errno != unix.EINPROGRESS {
		return errno
	}
	if errno == unix.EINPROGRESS {
		return waitWritable(fd)
	}
	return nil
}

func rawBind(fd int, sa *sockaddrL2) error {
	_, _, errno := unix.Syscall(unix.SYS_BIND, uintptr(fd), uintptr(unsafe.Pointer(sa)), unsafe.Sizeof(*sa))
	if errno != 0 {
		return errno
	}
	return nil
}

// waitWritable blocks until a nonblocking connect(2) completes, then
// checks SO_ERROR for the outcome.
func waitWritable(fd int) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	for {
		n, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		break
	}
	soerr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if soerr != 0 {
		return syscall.Errno(soerr)
	}
	return nil
}

// hciDevAddr reads the local adapter's own address via HCIGETDEVINFO, for
// binding the L2CAP socket to a specific adapter.
func hciDevAddr(device int) ([6]byte, error) {
	hfd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW, unix.BTPROTO_HCI)
	if err != nil {
		return [6]byte{}, fmt.Errorf("linuxsock: hci socket: %w", err)
	}
	defer unix.Close(hfd)

	var info struct {
		id         uint16
		name       [8]byte
		bdaddr     [6]byte
		flags      uint32
		devType    uint8
		features   [8]uint8
		pktType    uint32
		linkPolicy uint32
		linkMode   uint32
		aclMtu     uint16
		aclPkts    uint16
		scoMtu     uint16
		scoPkts    uint16
		stats      [10]uint32
	}
	info.id = uint16(device)

	const hciGetDeviceInfo = (2 << 30) | (72 << 8) | 211 | (4 << 16) // ioR('H', 211, sizeof(int))
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(hfd), hciGetDeviceInfo, uintptr(unsafe.Pointer(&info))); errno != 0 {
		return [6]byte{}, fmt.Errorf("linuxsock: hciGetDeviceInfo hci%d: %w", device, syscall.Errno(errno))
	}
	return info.bdaddr, nil
}

// reversed returns a's octets in wire order (least-significant first); a
// is stored MSB-last already, so this is just a defensive copy.
func reversed(a eui48.EUI48) [6]byte {
	var b [6]byte
	copy(b[:], a[:])
	return b
}

// Read blocks until one ATT PDU arrives on the channel. It polls with a
// bounded timeout and retries rather than relying on SO_RCVTIMEO, so that
// Close unblocks it deterministically instead of racing a receive
// timeout.
func (c *conn) Read(p []byte) (int, error) {
	c.rmu.Lock()
	defer c.rmu.Unlock()

	for {
		select {
		case <-c.closed:
			return 0, unix.EBADF
		default:
		}

		fds := []unix.PollFd{{Fd: int32(c.fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, pollTimeoutMs)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("linuxsock: poll: %w", err)
		}
		if n == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			return 0, unix.ECONNRESET
		}
		return unix.Read(c.fd, p)
	}
}

// Write sends one ATT PDU. L2CAP SOCK_SEQPACKET preserves message
// boundaries, so no fragmentation handling is needed here.
func (c *conn) Write(p []byte) (int, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return unix.Write(c.fd, p)
}

// Close shuts the socket down for both directions before closing it, so
// a Read blocked in poll/Read wakes with an error rather than hanging
// until some later timeout.
func (c *conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		unix.Shutdown(c.fd, unix.SHUT_RDWR)
		err = unix.Close(c.fd)
	})
	return err
}

func (c *conn) RemoteAddr() eui48.EUI48 { return c.peer }

// IsOpen reports whether Close has been called yet.
func (c *conn) IsOpen() bool {
	select {
	case <-c.closed:
		return false
	default:
		return true
	}
}
