// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package utils

// FireAndForgetSynchronizer decouples "run this in the background" from the
// actual scheduling. Production uses a plain goroutine; tests use the sync
// variant to keep execution deterministic.
type FireAndForgetSynchronizer interface {
	FireAndForget(fn func())
}

type fireAndForgetSynchronizer struct{}

func (f fireAndForgetSynchronizer) FireAndForget(fn func()) {
	go fn()
}

func NewFireAndForgetSynchronizer() FireAndForgetSynchronizer {
	return fireAndForgetSynchronizer{}
}

type syncFireAndForgetSynchronizer struct{}

func (f syncFireAndForgetSynchronizer) FireAndForget(fn func()) {
	fn()
}

func NewSyncFireAndForgetSynchronizer() FireAndForgetSynchronizer {
	return syncFireAndForgetSynchronizer{}
}
