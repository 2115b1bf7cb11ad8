package waypoint

import (
	"slices"
	"sort"

	"go.uber.org/zap"
)

type groupKey struct {
	name string
	axis Axis
}

// Group is a named, axis-scoped ordered set of watchers sharing trigger
// queues. Groups are created on first use and live as long as the tracker.
type Group struct {
	name    string
	axis    Axis
	id      string
	members []*Watcher
	queues  map[Direction][]*Watcher
	log     *zap.Logger
}

func newGroup(name string, axis Axis, log *zap.Logger) *Group {
	g := &Group{
		name: name,
		axis: axis,
		id:   name + "-" + axis.String(),
		log:  log,
	}
	g.clearTriggerQueues()
	return g
}

// Name returns the group name.
func (g *Group) Name() string { return g.name }

// Axis returns the group axis.
func (g *Group) Axis() Axis { return g.axis }

// ID returns "name-axis".
func (g *Group) ID() string { return g.id }

// Len returns the number of members.
func (g *Group) Len() int { return len(g.members) }

// Members returns a copy of the member list in its current order.
func (g *Group) Members() []*Watcher {
	return slices.Clone(g.members)
}

// First returns the first member, or nil for an empty group.
func (g *Group) First() *Watcher {
	if len(g.members) == 0 {
		return nil
	}
	return g.members[0]
}

// Last returns the last member, or nil for an empty group.
func (g *Group) Last() *Watcher {
	if len(g.members) == 0 {
		return nil
	}
	return g.members[len(g.members)-1]
}

// Next returns the member whose trigger point follows w's, or nil when w
// is last or not a member.
func (g *Group) Next(w *Watcher) *Watcher {
	g.sortMembers()
	i := slices.Index(g.members, w)
	if i < 0 || i == len(g.members)-1 {
		return nil
	}
	return g.members[i+1]
}

// Previous returns the member whose trigger point precedes w's, or nil
// when w is first or not a member.
func (g *Group) Previous(w *Watcher) *Watcher {
	g.sortMembers()
	i := slices.Index(g.members, w)
	if i <= 0 {
		return nil
	}
	return g.members[i-1]
}

// Pending returns the number of watchers queued for dir.
func (g *Group) Pending(dir Direction) int {
	return len(g.queues[dir])
}

func (g *Group) add(w *Watcher) {
	g.members = append(g.members, w)
}

func (g *Group) remove(w *Watcher) {
	if i := slices.Index(g.members, w); i > -1 {
		g.members = slices.Delete(g.members, i, i+1)
	}
}

func (g *Group) queueTrigger(w *Watcher, dir Direction) {
	g.queues[dir] = append(g.queues[dir], w)
}

func (g *Group) clearTriggerQueues() {
	g.queues = map[Direction][]*Watcher{
		Up:    nil,
		Down:  nil,
		Left:  nil,
		Right: nil,
	}
}

// flushTriggers fires queued crossings in physical crossing order. Every
// continuous watcher fires; of the rest only the outermost (the last after
// sorting) does. The queues are swapped out first so handlers that cause
// new crossings queue them for the next flush.
func (g *Group) flushTriggers() {
	queues := g.queues
	g.clearTriggerQueues()

	for _, dir := range directions {
		queue := queues[dir]
		if len(queue) == 0 {
			continue
		}
		if dir.Forward() {
			sort.SliceStable(queue, func(i, j int) bool {
				return queue[i].triggerPoint < queue[j].triggerPoint
			})
		} else {
			sort.SliceStable(queue, func(i, j int) bool {
				return queue[i].triggerPoint > queue[j].triggerPoint
			})
		}

		g.log.Debug("flushing triggers",
			zap.String("group", g.id),
			zap.String("direction", string(dir)),
			zap.Int("queued", len(queue)))

		last := len(queue) - 1
		for i, w := range queue {
			if w.continuous || i == last {
				w.trigger(dir)
			}
		}
	}
}

// sortMembers orders members by ascending trigger point.
func (g *Group) sortMembers() {
	sort.SliceStable(g.members, func(i, j int) bool {
		return g.members[i].triggerPoint < g.members[j].triggerPoint
	})
}
