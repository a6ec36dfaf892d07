package lod

// Vertex indices into a (n+1)×(n+1) lattice, row-major.

func latticeIndex(n, row, col int) uint32 {
	return uint32(row*(n+1) + col)
}

// buildVariants returns the default mesh and, when stitch is set, one variant
// per edge that fans three triangles around that edge's midpoint. All
// triangles share the same winding.
func buildVariants(n, row, col, span int, stitch, wireframe bool) [edgeCount][]uint32 {
	tl := latticeIndex(n, row*span, col*span)
	tr := tl + uint32(span)
	bl := latticeIndex(n, row*span+span, col*span)
	br := bl + uint32(span)

	var v [edgeCount][]uint32
	v[EdgeNone] = triangles(wireframe, tl, tr, bl, br, bl, tr)
	if !stitch {
		for e := EdgeTop; e < edgeCount; e++ {
			v[e] = v[EdgeNone]
		}
		return v
	}
	half := uint32(span / 2)
	stride := uint32(n + 1)
	top := tl + half
	bottom := bl + half
	left := tl + half*stride
	right := tr + half*stride

	v[EdgeTop] = triangles(wireframe, tl, top, bl, top, tr, br, top, br, bl)
	v[EdgeBottom] = triangles(wireframe, tl, tr, bottom, tl, bottom, bl, tr, br, bottom)
	v[EdgeLeft] = triangles(wireframe, tl, tr, left, left, tr, br, left, br, bl)
	v[EdgeRight] = triangles(wireframe, tl, tr, right, tl, right, bl, right, br, bl)
	return v
}

// triangles returns tris as a triangle list, or as a line list with each
// triangle's three edges when wireframe is set.
func triangles(wireframe bool, tris ...uint32) []uint32 {
	if !wireframe {
		return tris
	}
	lines := make([]uint32, 0, len(tris)*2)
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		lines = append(lines, a, b, b, c, c, a)
	}
	return lines
}
