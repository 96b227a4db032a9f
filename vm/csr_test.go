package vm

import "testing"

func TestCSRReadOnlyRejectsWrite(t *testing.T) {
	c := NewCSRFile()
	if err := c.Write(CSRMvendorid, 1); err == nil {
		t.Fatal("expected write to mvendorid to fail")
	}
	v, err := c.Read(CSRMvendorid)
	if err != nil || v != 0 {
		t.Fatalf("Read(mvendorid) = %d, %v; want 0, nil", v, err)
	}
}

func TestCSRIgnoredWriteStaysZero(t *testing.T) {
	c := NewCSRFile()
	if err := c.Write(CSRMstatus, 0xDEADBEEF); err != nil {
		t.Fatalf("Write(mstatus): %v", err)
	}
	v, err := c.Read(CSRMstatus)
	if err != nil || v != 0 {
		t.Fatalf("Read(mstatus) = %d, %v; want 0, nil", v, err)
	}
}

func TestCSRWarlZeroAlwaysReadsZero(t *testing.T) {
	c := NewCSRFile()
	if err := c.Write(CSRMisa, 0xFFFFFFFF); err != nil {
		t.Fatalf("Write(misa): %v", err)
	}
	v, err := c.Read(CSRMisa)
	if err != nil || v != 0 {
		t.Fatalf("Read(misa) = %d, %v; want 0, nil", v, err)
	}
}

func TestCSRWritableRoundTrips(t *testing.T) {
	c := NewCSRFile()
	if err := c.Write(CSRMscratch, 0x1234); err != nil {
		t.Fatalf("Write(mscratch): %v", err)
	}
	v, err := c.Read(CSRMscratch)
	if err != nil || v != 0x1234 {
		t.Fatalf("Read(mscratch) = 0x%X, %v; want 0x1234, nil", v, err)
	}
}

func TestCSRMtvecRequiresAlignment(t *testing.T) {
	c := NewCSRFile()
	if err := c.Write(CSRMtvec, 0x2000_0001); err == nil {
		t.Fatal("expected unaligned mtvec write to fail")
	}
	if err := c.Write(CSRMtvec, 0x2000_0004); err != nil {
		t.Fatalf("expected aligned mtvec write to succeed, got %v", err)
	}
	v, _ := c.Read(CSRMtvec)
	if v != 0x2000_0004 {
		t.Fatalf("Read(mtvec) = 0x%X, want 0x20000004", v)
	}
}

func TestCSRUnrecognizedAddress(t *testing.T) {
	c := NewCSRFile()
	if _, err := c.Read(0x7FF); err == nil {
		t.Fatal("expected read of an unrecognized CSR address to fail")
	}
	if err := c.Write(0x7FF, 1); err == nil {
		t.Fatal("expected write of an unrecognized CSR address to fail")
	}
}
