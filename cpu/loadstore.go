package cpu

// loadStoreAddr is the effective address of a load or store.
func loadStoreAddr(code Code, rs1 uint32) uint32 {
	if code.Class() == CLASS_STORE {
		return rs1 + code.ImmS()
	}
	return rs1 + code.ImmI()
}

// loadData extracts the addressed byte, half word or word from rdata.
// Sign extension applies unless funct3 bit 2 is set.
func loadData(code Code, addr, rdata uint32) (data uint32) {
	half := rdata & 0xffff
	if addr&2 != 0 {
		half = rdata >> 16
	}

	octet := half & 0xff
	if addr&1 != 0 {
		octet = half >> 8
	}

	signed := code.Funct3()&FUNCT3_UNSIGNED == 0

	switch code.Funct3() &^ FUNCT3_UNSIGNED {
	case FUNCT3_BYTE:
		data = octet
		if signed {
			data = signExtend(octet, 8)
		}
	case FUNCT3_HALF:
		data = half
		if signed {
			data = signExtend(half, 16)
		}
	default:
		data = rdata
	}

	return
}

// storeData places rs2 in the byte lanes selected by the address, and
// returns the lane write mask.
func storeData(code Code, addr, rs2 uint32) (wdata, wmask uint32) {
	a0 := addr&1 != 0
	a1 := addr&2 != 0

	b0 := rs2 & 0xff
	b1 := (rs2 >> 8) & 0xff
	b2 := (rs2 >> 16) & 0xff
	b3 := (rs2 >> 24) & 0xff

	lane1 := b1
	if a0 {
		lane1 = b0
	}
	lane2 := b2
	if a1 {
		lane2 = b0
	}
	lane3 := b3
	switch {
	case a0:
		lane3 = b0
	case a1:
		lane3 = b1
	}

	wdata = (lane3 << 24) | (lane2 << 16) | (lane1 << 8) | b0

	switch code.Funct3() & 0b11 {
	case FUNCT3_BYTE:
		wmask = 1 << (addr & 3)
	case FUNCT3_HALF:
		wmask = 0b0011
		if a1 {
			wmask = 0b1100
		}
	default:
		wmask = 0b1111
	}

	return
}
