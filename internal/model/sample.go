package model

// Sample is a single labeled training example: a raw URL string and its
// ground-truth label. The URL is not pre-validated; feature extraction
// decides whether it is usable.
type Sample struct {
	// URL is the raw URL string exactly as it appeared in the dataset.
	URL string

	// Label is the ground-truth classification of the URL.
	Label Label
}

// Dataset is an ordered sequence of labeled samples. It is consumed by a
// single training run and is never retained by the predictor.
type Dataset []Sample

// Len returns the number of samples in the dataset.
func (d Dataset) Len() int {
	return len(d)
}

// ClassCounts returns the number of phishing and legitimate samples.
func (d Dataset) ClassCounts() (phishing, legitimate int) {
	for _, s := range d {
		if s.Label.IsPhishing() {
			phishing++
		} else {
			legitimate++
		}
	}
	return phishing, legitimate
}

// ClassCount returns the number of distinct labels present in the dataset.
// A classifier fit is only defined when both classes are represented.
func (d Dataset) ClassCount() int {
	phishing, legitimate := d.ClassCounts()
	n := 0
	if phishing > 0 {
		n++
	}
	if legitimate > 0 {
		n++
	}
	return n
}
