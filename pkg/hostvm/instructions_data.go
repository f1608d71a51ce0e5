package hostvm

func (vm *VM) handleLOAD() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	addr, err := vm.readAddrOperand()
	if err != nil {
		return vm.memErr(err)
	}
	v, err := vm.Memory.ReadU32LE(addr)
	if err != nil {
		return vm.memErr(err)
	}
	vm.Registers[r] = v
	return nil
}

func (vm *VM) handleSTORE() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	addr, err := vm.readAddrOperand()
	if err != nil {
		return vm.memErr(err)
	}
	if err := vm.Memory.WriteU32LE(addr, vm.Registers[r]); err != nil {
		return vm.memErr(err)
	}
	return nil
}

func (vm *VM) handleMOVE() error {
	d, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	s, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	vm.Registers[d] = vm.Registers[s]
	return nil
}

func (vm *VM) handlePUSH() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	return vm.push(vm.Registers[r])
}

func (vm *VM) handlePOP() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	v, err := vm.pop()
	if err != nil {
		return err
	}
	vm.Registers[r] = v
	return nil
}

func (vm *VM) handleLOADI() error {
	r, err := vm.readReg()
	if err != nil {
		return vm.memErr(err)
	}
	imm, err := vm.readUint32()
	if err != nil {
		return vm.memErr(err)
	}
	vm.Registers[r] = imm
	return nil
}
