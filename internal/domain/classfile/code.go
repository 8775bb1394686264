package classfile

import "fmt"

// Opcodes that carry a constant pool index worth recovering.
const (
	opLdc             = 18
	opLdcW            = 19
	opGetstatic       = 178
	opPutstatic       = 179
	opGetfield        = 180
	opPutfield        = 181
	opInvokevirtual   = 182
	opInvokespecial   = 183
	opInvokestatic    = 184
	opInvokeinterface = 185
	opInvokedynamic   = 186
	opNew             = 187
	opAnewarray       = 189
	opCheckcast       = 192
	opInstanceof      = 193
	opWide            = 196
	opMultianewarray  = 197
	opTableswitch     = 170
	opLookupswitch    = 171
)

// instrLen maps each opcode to its total encoded length in bytes.
// 0 marks variable-length instructions (tableswitch, lookupswitch, wide)
// and opcodes that are invalid in a Code attribute.
var instrLen = buildInstrLen()

func buildInstrLen() [256]int {
	var l [256]int
	set := func(from, to, n int) {
		for op := from; op <= to; op++ {
			l[op] = n
		}
	}
	set(0, 15, 1)     // nop .. dconst_1
	l[16] = 2         // bipush
	l[17] = 3         // sipush
	l[18] = 2         // ldc
	l[19] = 3         // ldc_w
	l[20] = 3         // ldc2_w
	set(21, 25, 2)    // iload .. aload
	set(26, 53, 1)    // iload_0 .. saload
	set(54, 58, 2)    // istore .. astore
	set(59, 131, 1)   // istore_0 .. lxor
	l[132] = 3        // iinc
	set(133, 152, 1)  // i2l .. dcmpg
	set(153, 168, 3)  // ifeq .. jsr
	l[169] = 2        // ret
	set(172, 177, 1)  // ireturn .. return
	set(178, 184, 3)  // getstatic .. invokestatic
	l[185] = 5        // invokeinterface
	l[186] = 5        // invokedynamic
	l[187] = 3        // new
	l[188] = 2        // newarray
	l[189] = 3        // anewarray
	set(190, 191, 1)  // arraylength, athrow
	set(192, 193, 3)  // checkcast, instanceof
	set(194, 195, 1)  // monitorenter, monitorexit
	l[197] = 4        // multianewarray
	set(198, 199, 3)  // ifnull, ifnonnull
	set(200, 201, 5)  // goto_w, jsr_w
	return l
}

// scanCode walks a Code attribute body and collects every symbolic reference
// the instruction stream makes, in order. One instruction yields one
// reference, so repeated calls to the same target stay distinct.
func scanCode(body []byte, pool constantPool) ([]Reference, error) {
	r := &reader{buf: body}
	r.u2() // max_stack
	r.u2() // max_locals
	codeLen := r.u4()
	code := r.bytes(int(codeLen))
	if r.err != nil {
		return nil, r.err
	}

	var refs []Reference
	pc := 0
	for pc < len(code) {
		op := code[pc]
		size, err := instrSize(code, pc)
		if err != nil {
			return nil, err
		}
		if pc+size > len(code) {
			return nil, fmt.Errorf("instruction 0x%02X at %d overruns code", op, pc)
		}

		ref, ok, err := instrRef(code, pc, pool)
		if err != nil {
			return nil, err
		}
		if ok {
			refs = append(refs, ref)
		}
		pc += size
	}
	return refs, nil
}

// instrRef extracts the reference an instruction makes, if any. References
// into primitive array descriptors resolve to no class and are dropped.
func instrRef(code []byte, pc int, pool constantPool) (Reference, bool, error) {
	op := code[pc]
	switch op {
	case opGetstatic, opPutstatic, opGetfield, opPutfield,
		opInvokevirtual, opInvokespecial, opInvokestatic,
		opInvokeinterface:
		class, member, err := pool.memberRef(cpIndex(code, pc))
		if err != nil {
			return Reference{}, false, err
		}
		if class == "" {
			return Reference{}, false, nil
		}
		return Reference{Class: class, Member: member}, true, nil

	case opNew, opAnewarray, opCheckcast, opInstanceof, opMultianewarray:
		class, err := pool.className(cpIndex(code, pc))
		if err != nil {
			return Reference{}, false, err
		}
		if class == "" {
			return Reference{}, false, nil
		}
		return Reference{Class: class}, true, nil

	case opLdc, opLdcW:
		idx := uint16(code[pc+1])
		if op == opLdcW {
			idx = cpIndex(code, pc)
		}
		if int(idx) < len(pool) && pool[idx].tag == constClass {
			class, err := pool.className(idx)
			if err != nil {
				return Reference{}, false, err
			}
			if class != "" {
				return Reference{Class: class}, true, nil
			}
		}
		return Reference{}, false, nil
	}
	return Reference{}, false, nil
}

func cpIndex(code []byte, pc int) uint16 {
	return uint16(code[pc+1])<<8 | uint16(code[pc+2])
}

// instrSize returns the full encoded size of the instruction at pc, handling
// the three variable-length forms.
func instrSize(code []byte, pc int) (int, error) {
	op := code[pc]
	switch op {
	case opWide:
		if pc+1 >= len(code) {
			return 0, fmt.Errorf("wide at %d overruns code", pc)
		}
		if code[pc+1] == 132 { // wide iinc
			return 6, nil
		}
		return 4, nil
	case opTableswitch:
		pad := padTo4(pc + 1)
		base := pc + 1 + pad
		if base+12 > len(code) {
			return 0, fmt.Errorf("tableswitch at %d overruns code", pc)
		}
		low := int(int32(beU4(code[base+4:])))
		high := int(int32(beU4(code[base+8:])))
		if high < low {
			return 0, fmt.Errorf("tableswitch at %d: high %d < low %d", pc, high, low)
		}
		return 1 + pad + 12 + (high-low+1)*4, nil
	case opLookupswitch:
		pad := padTo4(pc + 1)
		base := pc + 1 + pad
		if base+8 > len(code) {
			return 0, fmt.Errorf("lookupswitch at %d overruns code", pc)
		}
		npairs := int(int32(beU4(code[base+4:])))
		if npairs < 0 {
			return 0, fmt.Errorf("lookupswitch at %d: negative pair count", pc)
		}
		return 1 + pad + 8 + npairs*8, nil
	}
	size := instrLen[op]
	if size == 0 {
		return 0, fmt.Errorf("invalid opcode 0x%02X at %d", op, pc)
	}
	return size, nil
}

func padTo4(off int) int {
	return (4 - off%4) % 4
}

func beU4(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
