// Copyright Psychogenic Technologies Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package sim executes compiled designs cycle by cycle.  It provides the
// reference semantics for everything the hdl package merely describes: all
// right-hand sides read pre-edge state, registers commit atomically on the
// clock edge with last-write-wins resolution, committed values truncate to
// the register width, and bounded analysis honours assumptions by refusing
// to examine any cycle at or beyond the first violation.
package sim

import (
	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"

	log "github.com/sirupsen/logrus"
)

// Design represents a compiled (i.e. flattened) module tree, ready for
// execution.  Statements appear in elaboration order: each module's own
// statements first, followed by those of its children in attachment order.
// Signals are discovered in statement order and then obligation order, so a
// given tree always compiles to the same design.
type Design struct {
	name        string
	clocked     []hdl.Stmt
	obligations []hdl.Obligation
	signals     []*hdl.Signal
	byName      map[string]*hdl.Signal
	registers   map[*hdl.Signal]bool
	seen        map[*hdl.Signal]bool
}

// Compile flattens the given module tree into an executable design.  This
// elaborates every attached child exactly once, and rejects trees which are
// not well formed: modules instantiated twice, registers driven from more
// than one module, duplicate obligation handles, or statement kinds this
// interpreter does not know how to execute.
func Compile(top *hdl.Module) (*Design, error) {
	design := &Design{
		name:      top.Name(),
		byName:    make(map[string]*hdl.Signal),
		registers: make(map[*hdl.Signal]bool),
		seen:      make(map[*hdl.Signal]bool),
	}
	//
	var (
		drivers   = make(map[*hdl.Signal]string)
		instances = make(map[*hdl.Module]bool)
		handles   = make(map[string]bool)
	)
	//
	if err := design.flatten(top, drivers, instances, handles); err != nil {
		return nil, err
	}
	// Anything driven is a register; everything else is a free input.
	for signal := range drivers {
		design.registers[signal] = true
	}
	// Discover signals, statements first.
	for _, stmt := range design.clocked {
		stmt.VisitSignals(design.discover)
	}
	//
	for i := range design.obligations {
		design.obligations[i].VisitSignals(design.discover)
	}
	//
	log.Debugf("compiled design %q: %d signal(s), %d register(s), %d obligation(s)",
		design.name, len(design.signals), len(design.registers), len(design.obligations))
	//
	return design, nil
}

// Name returns the name of the top module this design was compiled from.
func (p *Design) Name() string {
	return p.name
}

// Signals returns every signal of this design in discovery order.
func (p *Design) Signals() []*hdl.Signal {
	return p.signals
}

// Signal returns the signal carrying the given name, or nil if the design
// contains none.  Should several signals share a name, the first discovered
// wins; generated names are unique, so this only affects free inputs.
func (p *Design) Signal(name string) *hdl.Signal {
	return p.byName[name]
}

// IsRegister reports whether the given signal is assigned by some clocked
// statement of this design.  Signals which are not registers are free
// inputs, driven between cycles by the testbench.
func (p *Design) IsRegister(signal *hdl.Signal) bool {
	return p.registers[signal]
}

// Clocked returns the flattened clocked statements of this design.
func (p *Design) Clocked() []hdl.Stmt {
	return p.clocked
}

// Obligations returns the flattened proof obligations of this design.
func (p *Design) Obligations() []hdl.Obligation {
	return p.obligations
}

func (p *Design) flatten(m *hdl.Module, drivers map[*hdl.Signal]string,
	instances map[*hdl.Module]bool, handles map[string]bool) error {
	//
	if instances[m] {
		return errors.Errorf("module %q instantiated more than once", m.Name())
	}
	//
	instances[m] = true
	// Validate own statements, recording their drivers.
	if err := checkDrivers(m.Name(), m.Clocked(), drivers); err != nil {
		return err
	}
	//
	p.clocked = append(p.clocked, m.Clocked()...)
	// Collect obligations, insisting handles stay unambiguous.
	for _, ob := range m.Obligations() {
		if handles[ob.Handle] {
			return errors.Errorf("duplicate obligation handle %q", ob.Handle)
		}
		//
		handles[ob.Handle] = true
		p.obligations = append(p.obligations, ob)
	}
	// Elaborate children.
	for _, child := range m.Children() {
		elaborated, err := child.Elaborate()
		//
		if err != nil {
			return errors.Wrapf(err, "elaborating %q", child.Name())
		}
		//
		if err := p.flatten(elaborated, drivers, instances, handles); err != nil {
			return err
		}
	}
	// Done
	return nil
}

func (p *Design) discover(signal *hdl.Signal) {
	if !p.seen[signal] {
		p.seen[signal] = true
		p.signals = append(p.signals, signal)
		//
		if _, ok := p.byName[signal.Name()]; !ok {
			p.byName[signal.Name()] = signal
		}
	}
}

// checkDrivers walks a statement tree, recording which module drives each
// register and rejecting registers driven from two different modules.
// Multiple assignments within one module are fine (last write wins), whereas
// cross-module contention has no defined resolution order.
func checkDrivers(module string, stmts []hdl.Stmt, drivers map[*hdl.Signal]string) error {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *hdl.Assign:
			if owner, ok := drivers[s.Dst]; ok && owner != module {
				return errors.Errorf("register %q driven by both %q and %q", s.Dst.Name(), owner, module)
			}
			//
			drivers[s.Dst] = module
		case *hdl.When:
			if err := checkDrivers(module, s.Then, drivers); err != nil {
				return err
			}
			//
			if err := checkDrivers(module, s.Else, drivers); err != nil {
				return err
			}
		default:
			return errors.Errorf("unsupported statement %s", stmt)
		}
	}
	// Done
	return nil
}
