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

// Package verify carries the state shared by every history tracker of a
// verification run: the registry keeping generated signal names unique, the
// record of tracker window sizes from which the common analysis bound is
// derived, ownership of tracked signals, and the configuration deciding
// which verification groups are live.  One context corresponds to one
// elaborated design; mixing contexts within a design is not supported.
package verify

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/psychogenic/amaranth-testbench/pkg/hdl"

	log "github.com/sirupsen/logrus"
)

// Context holds per-design verification state.  The zero value is not
// usable; construct contexts with NewContext.
type Context struct {
	config Config
	// names records every generated name handed out so far.
	names map[string]bool
	// trackers counts history trackers registered against this context.
	trackers uint
	// minWindow and maxWindow span the window sizes of those trackers, with
	// hasWindow marking whether any were recorded at all.
	minWindow uint
	maxWindow uint
	hasWindow bool
	// owned maps each tracked signal to the tracker owning it.
	owned map[*hdl.Signal]string
	// groups maps each verification group encountered to whether it was
	// ever enabled.
	groups map[string]bool
}

// NewContext constructs a fresh context with the given configuration.
func NewContext(config Config) *Context {
	return &Context{
		config: config,
		names:  make(map[string]bool),
		owned:  make(map[*hdl.Signal]string),
		groups: make(map[string]bool),
	}
}

// Config returns the configuration of this context.
func (p *Context) Config() Config {
	return p.config
}

// UniqueName returns a name derived from the given base which no earlier
// call has returned: the base itself if still free, otherwise the base with
// the smallest disambiguating suffix (base1, base2, and so on).
func (p *Context) UniqueName(base string) string {
	name := base
	//
	for i := 1; p.names[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	//
	p.names[name] = true
	//
	return name
}

// RegisterTracker records a new history tracker with the given window size,
// returning its index (for name prefixes) and its module name.  An explicit
// name, when non-empty, is used verbatim; otherwise a default is generated.
func (p *Context) RegisterTracker(explicit string, window uint) (uint, string) {
	var (
		index = p.trackers
		name  = explicit
	)
	//
	if name == "" {
		name = p.UniqueName("_history")
	}
	//
	p.trackers++
	p.recordWindow(window)
	//
	return index, name
}

// Trackers returns how many history trackers registered against this
// context.
func (p *Context) Trackers() uint {
	return p.trackers
}

// MinWindow returns the smallest window size over all registered trackers,
// or zero if none registered.  Bounded analysis is only sound below this
// bound, since the tracker with the smallest window runs out of history
// first.
func (p *Context) MinWindow() uint {
	return p.minWindow
}

// MaxWindow returns the largest window size over all registered trackers,
// or zero if none registered.
func (p *Context) MaxWindow() uint {
	return p.maxWindow
}

// ClaimSignal records the given tracker as owner of the given signal,
// failing if another tracker claimed it already.  A signal is owned by
// exactly one tracker; sharing would let the owners disagree about its
// generated stores.
func (p *Context) ClaimSignal(signal *hdl.Signal, owner string) error {
	if current, ok := p.owned[signal]; ok {
		return errors.Errorf("signal %q already tracked by %q", signal.Name(), current)
	}
	//
	p.owned[signal] = owner
	//
	return nil
}

// Enabled reports whether the given verification group is live under this
// context's configuration, recording it as known either way.  The empty
// group denotes ungrouped constructs, which are live whenever verification
// is.
func (p *Context) Enabled(group string) bool {
	if group == "" {
		return p.config.Verify
	}
	// Record as known.
	if _, ok := p.groups[group]; !ok {
		p.groups[group] = false
	}
	//
	if !p.config.Verify {
		return false
	}
	//
	live := len(p.config.Groups) == 0
	//
	for _, g := range p.config.Groups {
		live = live || g == group
	}
	//
	if live && !p.groups[group] {
		p.groups[group] = true
		log.Infof("verification group %q enabled", group)
	}
	//
	return live
}

// CoversEnabled reports whether cover points should be emitted at all.
func (p *Context) CoversEnabled() bool {
	return p.config.Verify && p.config.Covers
}

// DepthProbeEnabled reports whether trackers should emit their depth probe.
func (p *Context) DepthProbeEnabled() bool {
	return p.config.DepthProbe
}

// KnownGroups returns every verification group consulted so far, sorted.
func (p *Context) KnownGroups() []string {
	var known []string
	//
	for g := range p.groups {
		known = append(known, g)
	}
	//
	sort.Strings(known)
	//
	return known
}

// ActiveGroups returns every verification group which was actually enabled
// at some point, sorted.
func (p *Context) ActiveGroups() []string {
	var active []string
	//
	for g, live := range p.groups {
		if live {
			active = append(active, g)
		}
	}
	//
	sort.Strings(active)
	//
	return active
}

func (p *Context) recordWindow(window uint) {
	if !p.hasWindow {
		p.minWindow = window
		p.maxWindow = window
		p.hasWindow = true
		//
		return
	}
	//
	if window < p.minWindow {
		p.minWindow = window
	}
	//
	if window > p.maxWindow {
		p.maxWindow = window
	}
}
