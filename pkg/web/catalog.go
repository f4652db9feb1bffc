package web

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ritzau/dotlite/pkg/batch"
	"github.com/ritzau/dotlite/pkg/graph"
	"github.com/ritzau/dotlite/pkg/lens"
	"github.com/ritzau/dotlite/pkg/logging"
	"github.com/ritzau/dotlite/pkg/model"
	"github.com/ritzau/dotlite/pkg/pubsub"
)

// Entry is the latest decode result of one file
type Entry struct {
	Name      string
	Path      string
	GraphName string
	Graph     *model.Graph
	Err       error
	Updated   time.Time
}

// EntryInfo is the listing form of an Entry
type EntryInfo struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Directed bool   `json:"directed"`
	Nodes    int    `json:"nodes"`
	Edges    int    `json:"edges"`
}

// Info summarises the entry for listings and events
func (e *Entry) Info() EntryInfo {
	info := EntryInfo{Name: e.Name, Path: e.Path, OK: e.Err == nil}
	if e.Err != nil {
		info.Error = e.Err.Error()
		return info
	}
	info.Directed = e.Graph.IsDirected
	info.Nodes = len(e.Graph.Nodes)
	info.Edges = len(e.Graph.Edges())
	return info
}

// Catalog holds the decoded graphs of a directory, keyed by name. A file's
// name is its path relative to the root, in slash form, without extension.
// When two files share that name (x.dot and x.gv) the later one keeps its
// extension.
type Catalog struct {
	mu        sync.RWMutex
	root      string
	workers   int
	entries   map[string]*Entry
	names     map[string]string // path -> assigned name
	publisher pubsub.Publisher
}

// NewCatalog creates an empty catalog for the directory root.
// Changes are announced on publisher under pubsub.TopicGraphs.
func NewCatalog(root string, workers int, publisher pubsub.Publisher) *Catalog {
	return &Catalog{
		root:      root,
		workers:   workers,
		entries:   make(map[string]*Entry),
		names:     make(map[string]string),
		publisher: publisher,
	}
}

// NameFor returns the preferred catalog name of a file path
func (c *Catalog) NameFor(path string) string {
	rel := c.relPath(path)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

func (c *Catalog) relPath(path string) string {
	rel, err := filepath.Rel(c.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// assignName returns the name path is stored under, keeping a name once
// given. Must be called with c.mu held.
func (c *Catalog) assignName(path string) string {
	if name, ok := c.names[path]; ok {
		return name
	}

	name := c.NameFor(path)
	if other, ok := c.entries[name]; ok && other.Path != path {
		full := c.relPath(path)
		logging.Warn("graph name already taken, keeping the extension",
			"name", name, "path", path, "existing", other.Path, "assigned", full)
		if prev, ok := c.entries[full]; ok && prev.Path != path {
			logging.Warn("graph name collision, replacing entry", "name", full, "path", path, "existing", prev.Path)
			delete(c.names, prev.Path)
		}
		name = full
	}
	c.names[path] = name
	return name
}

// Reload decodes the given files and replaces their entries. A file that
// fails keeps an entry carrying the error.
func (c *Catalog) Reload(ctx context.Context, paths []string) (loaded, failed int) {
	results := batch.DecodeAll(ctx, paths, c.workers)

	for _, r := range results {
		entry := &Entry{
			Path:      r.Path,
			GraphName: r.Name,
			Graph:     r.Graph,
			Err:       r.Err,
			Updated:   time.Now(),
		}
		c.mu.Lock()
		entry.Name = c.assignName(r.Path)
		prev := c.entries[entry.Name]
		c.entries[entry.Name] = entry
		c.mu.Unlock()

		if !r.OK() {
			failed++
			logging.Warn("graph failed to decode", "path", r.Path, "error", r.Err)
			c.publish(pubsub.GraphFailed, entry.Info(), nil)
			continue
		}

		loaded++
		var changes *pubsub.GraphChanges
		if prev != nil && prev.Err == nil {
			diff := lens.Compare(prev.Graph, entry.Graph)
			changes = &pubsub.GraphChanges{
				AddedNodes:   len(diff.AddedNodes),
				RemovedNodes: len(diff.RemovedNodes),
				AddedEdges:   len(diff.AddedEdges),
				RemovedEdges: len(diff.RemovedEdges),
			}
			logging.Debug("graph reloaded", "name", entry.Name, "unchanged", diff.Empty())
		}
		c.publish(pubsub.GraphUpdated, entry.Info(), changes)
	}

	return loaded, failed
}

// Remove drops the entries of the given files
func (c *Catalog) Remove(paths []string) {
	for _, path := range paths {
		c.mu.Lock()
		name, ok := c.names[path]
		if ok {
			delete(c.names, path)
			delete(c.entries, name)
		}
		c.mu.Unlock()

		if ok {
			c.publish(pubsub.GraphRemoved, EntryInfo{Name: name, Path: path}, nil)
		}
	}
}

// Get returns the entry with the given name
func (c *Catalog) Get(name string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// List returns all entries sorted by name
func (c *Catalog) List() []EntryInfo {
	c.mu.RLock()
	infos := make([]EntryInfo, 0, len(c.entries))
	for _, e := range c.entries {
		infos = append(infos, e.Info())
	}
	c.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// PublishStatus announces the catalog state under pubsub.TopicStatus
func (c *Catalog) PublishStatus(status pubsub.CatalogStatus) {
	if err := c.publisher.Publish(pubsub.TopicStatus, status.State, status); err != nil {
		logging.Warn("failed to publish catalog status", "error", err)
	}
}

func (c *Catalog) publish(eventType string, info EntryInfo, changes *pubsub.GraphChanges) {
	event := pubsub.GraphEvent{
		Name:     info.Name,
		Path:     info.Path,
		Directed: info.Directed,
		Nodes:    info.Nodes,
		Edges:    info.Edges,
		Error:    info.Error,
		Changes:  changes,
	}
	if err := c.publisher.Publish(pubsub.TopicGraphs, eventType, event); err != nil {
		logging.Warn("failed to publish graph event", "name", info.Name, "error", err)
	}
}

// GraphNode is a node of the visualisation payload
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"` // "node", "isolated" or "self_loop"
}

// GraphEdge is an edge of the visualisation payload
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"` // "directed" or "undirected"
}

// GraphData is a decoded graph in the node/edge list form used by
// browser graph renderers
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

func buildGraphData(dg *graph.DotGraph) *GraphData {
	data := &GraphData{Nodes: []GraphNode{}, Edges: []GraphEdge{}}

	loops := make(map[string]bool)
	for _, name := range dg.SelfLoops() {
		loops[name] = true
	}

	edgeType := "undirected"
	if dg.Directed() {
		edgeType = "directed"
	}
	touched := make(map[string]bool)
	for _, e := range dg.Edges() {
		touched[e[0]] = true
		touched[e[1]] = true
		data.Edges = append(data.Edges, GraphEdge{Source: e[0], Target: e[1], Type: edgeType})
	}

	for _, name := range dg.Names() {
		nodeType := "node"
		switch {
		case loops[name]:
			nodeType = "self_loop"
		case !touched[name]:
			nodeType = "isolated"
		}
		data.Nodes = append(data.Nodes, GraphNode{ID: name, Label: name, Type: nodeType})
	}

	return data
}
