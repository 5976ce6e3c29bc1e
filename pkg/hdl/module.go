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

package hdl

// Elaborable is anything which can produce a module on demand.  Composite
// generators (such as history trackers) implement this to defer emitting
// their update logic until the design is compiled, by which point they know
// which of their internal stores were actually queried.
type Elaborable interface {
	// Name returns the name of the module this will elaborate into.
	Name() string
	// Elaborate produces the module.  This is called at most once per
	// compilation; implementations may reject repeated calls.
	Elaborate() (*Module, error)
}

// Module represents a named container of clocked statements, proof
// obligations and child elaborables.  Modules form a tree rooted at the top
// of a design; compilation flattens the tree into a single statement list,
// preserving statement order within each module.
type Module struct {
	name        string
	clocked     []Stmt
	obligations []Obligation
	children    []Elaborable
}

// NewModule constructs an empty module with the given name.
func NewModule(name string) *Module {
	if name == "" {
		panic("module with empty name")
	}
	//
	return &Module{name: name}
}

// Name implementation for the Elaborable interface.
func (p *Module) Name() string {
	return p.name
}

// Elaborate implementation for the Elaborable interface.  A plain module
// elaborates to itself.
func (p *Module) Elaborate() (*Module, error) {
	return p, nil
}

// Sync appends clocked statements to this module.
func (p *Module) Sync(stmts ...Stmt) {
	p.clocked = append(p.clocked, stmts...)
}

// Attach adds a child elaborable to this module.  Children are elaborated
// (and hence flattened) in attachment order, after this module's own
// statements.
func (p *Module) Attach(child Elaborable) {
	if child == nil {
		panic("attaching nil child")
	}
	//
	p.children = append(p.children, child)
}

// Assert attaches an assertion obligation to this module.  A nil guard means
// the property must hold on every analysed cycle.
func (p *Module) Assert(handle string, guard Expr, property Expr) {
	p.addObligation(ASSERT, handle, guard, property)
}

// Assume attaches an assumption obligation to this module, constraining the
// space of analysed cycles.
func (p *Module) Assume(handle string, guard Expr, property Expr) {
	p.addObligation(ASSUME, handle, guard, property)
}

// Cover attaches a cover obligation to this module, requesting a witness
// that the property is reachable.
func (p *Module) Cover(handle string, guard Expr, property Expr) {
	p.addObligation(COVER, handle, guard, property)
}

// Clocked returns the clocked statements of this module, in order.
func (p *Module) Clocked() []Stmt {
	return p.clocked
}

// Obligations returns the proof obligations attached to this module, in
// order.
func (p *Module) Obligations() []Obligation {
	return p.obligations
}

// Children returns the child elaborables of this module, in attachment
// order.
func (p *Module) Children() []Elaborable {
	return p.children
}

func (p *Module) addObligation(kind ObligationKind, handle string, guard Expr, property Expr) {
	if handle == "" {
		panic("obligation with empty handle")
	} else if property == nil {
		panic("obligation with nil property")
	}
	//
	p.obligations = append(p.obligations, Obligation{kind, handle, guard, property})
}
