package soft

// labelRegions assigns a region number, starting at 1, to every 4-connected
// group of non-line pixels. Line pixels keep label 0.
func labelRegions(line []bool, w, h int) ([]int32, int) {
	labels := make([]int32, w*h)
	var next int32
	queue := make([]int, 0, 256)

	for start := range labels {
		if line[start] || labels[start] != 0 {
			continue
		}
		next++
		labels[start] = next
		queue = append(queue[:0], start)

		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			x, y := i%w, i/w

			visit := func(j int) {
				if !line[j] && labels[j] == 0 {
					labels[j] = next
					queue = append(queue, j)
				}
			}
			if x > 0 {
				visit(i - 1)
			}
			if x < w-1 {
				visit(i + 1)
			}
			if y > 0 {
				visit(i - w)
			}
			if y < h-1 {
				visit(i + w)
			}
		}
	}
	return labels, int(next)
}
