package server

import (
	"html/template"
	"net/http"

	"github.com/matzehuels/lineage/pkg/lineage"
	"github.com/matzehuels/lineage/pkg/render/timeline"
)

// indexPage shows the timeline and deletes the clicked link. The page
// reloads the SVG after each edit and whenever the session changes.
var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>lineage</title>
  <style>
    body { font-family: sans-serif; margin: 1em; }
    #status { color: #555; min-height: 1.2em; }
  </style>
</head>
<body>
  <label><input type="checkbox" id="compact"> compact chains after delete</label>
  <div id="status">Click a link to delete the branch below it.</div>
  <div id="canvas">{{.SVG}}</div>
  <script>
    const session = {{.Session}};
    const status = document.getElementById('status');
    async function reload() {
      const res = await fetch('graph.svg');
      if (res.headers.get('X-Lineage-Session') !== session) { location.reload(); return; }
      document.getElementById('canvas').innerHTML = await res.text();
    }
    document.getElementById('canvas').addEventListener('click', async (ev) => {
      const el = ev.target.closest('[data-link]');
      if (!el) return;
      const id = el.dataset.link;
      const compact = document.getElementById('compact').checked;
      const res = await fetch('links/' + encodeURIComponent(id) + '?compact=' + compact, {method: 'DELETE'});
      const body = await res.json();
      status.textContent = res.ok
        ? 'Deleted ' + id + ': ' + body.result.nodes_removed + ' points removed'
        : body.error + ': ' + body.message;
      reload();
    });
  </script>
</body>
</html>
`))

type indexData struct {
	SVG     template.HTML
	Session string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var svg []byte
	s.withGraph(func(g *lineage.Graph) { svg = timeline.RenderSVG(g, s.opts.Timeline...) })

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	// The SVG is produced by our own renderer, which escapes every ID.
	data := indexData{SVG: template.HTML(svg), Session: s.session}
	if err := indexPage.Execute(w, data); err != nil {
		s.logger.Error("Render index", "error", err)
	}
}
