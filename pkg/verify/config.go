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

package verify

// Config determines which verification constructs are emitted into a
// design.  Scenario authors group related obligations under named groups and
// consult the context before emitting them, which allows a single testbench
// to carry many property sets while exercising chosen subsets per run.
type Config struct {
	// Verify globally enables verification constructs.  When false, no
	// group is enabled and no cover points are emitted.
	Verify bool
	// Covers enables emission of cover points alongside assertions.
	Covers bool
	// DepthProbe requests a deliberately unsatisfiable assertion from each
	// history tracker.  Every analysed cycle then reports a failure, so the
	// deepest reported cycle reveals how far the analysis actually reached.
	DepthProbe bool
	// Groups restricts enabled verification groups to those named.  An
	// empty list enables every group.
	Groups []string
}

// DefaultConfig returns the configuration used by testbenches which do not
// care to choose: everything on, except the depth probe.
func DefaultConfig() Config {
	return Config{Verify: true, Covers: true}
}
