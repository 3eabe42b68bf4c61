// Package timeline renders a lineage tree as an SVG timeline.
//
// # Geometry
//
// A node at (x, y) is drawn as a circle at
//
//	(x*Scale + TranslateX, y*Scale + TranslateY)
//
// so time runs left to right and display rows run top to bottom. A link
// between two nodes on the same row is a straight line. A link that changes
// row is a cubic Bézier curve leaving the source horizontally:
//
//	start  (x1, y1)
//	ctrl1  (x1 + 0.5, (y1 + y2) / 2)
//	ctrl2  (x1 + 1, y2)
//	end    (x2, y2)
//
// with every point scaled and translated as above.
//
// # Interaction
//
// Each link is drawn twice: a wide transparent stroke that serves as the
// hit area, then the visible stroke. Both carry the link ID in a data-link
// attribute so a browser client can map clicks to DELETE requests. Hovering
// a link turns it blue.
package timeline
