package runtime

import "github.com/ianjrobertson/ti84/numeric"

// PlotSlot samples an enabled Y= slot over the current window and returns
// the connected segments a renderer would draw. Disabled and empty slots
// yield no segments.
func PlotSlot(st *State, index, pixelWidth int) ([][]numeric.Point, error) {
	sl, err := st.Slot(index)
	if err != nil {
		return nil, err
	}
	if sl.Text == "" || !sl.Enabled {
		return nil, nil
	}
	w := st.Window()
	return numeric.SamplePlot(SlotFunc(st, index), w.XMin, w.XMax, w.YMin, w.YMax, pixelWidth, w.XRes), nil
}
