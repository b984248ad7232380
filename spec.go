package cirrhosis

import "context"

// Classifier describes how a trained cirrhosis stage model can be restored and
// used for predictions. There are two implementations, the Python sidecar of
// package loader and the native soft voting of package ensemble.
//
//     var cla cirrhosis.Classifier = &loader.Loader{Pat: "/srv/cirrhosis", ...}
//
type Classifier interface {
	// Restore loads the model artefacts found in the configured artefact
	// directory. For the sidecar implementation Restore spawns a child process
	// running Python and blocks until that process serves predictions or the
	// given context expires. Suppose having trained a model via the training
	// pipeline.
	//
	//     $ cirrhosis train --dataset liver_cirrhosis.csv
	//
	// The artefact directory then contains the files below, and Restore can be
	// called.
	//
	//     $ tree -L 1 /srv/cirrhosis/
	//     /srv/cirrhosis/
	//     ├── label_encoders.msgpack
	//     ├── label_encoders.pkl
	//     ├── lightgbm.txt
	//     ├── liver_cirrhosis_model.pkl
	//     ├── manifest.yaml
	//     ├── res
	//     ├── scaler.msgpack
	//     └── scaler.pkl
	//
	Restore(context.Context) error
	// Predict returns the stage class for a single feature vector. The vector
	// must already be scaled and ordered as defined by package feature.
	//
	//     cla, err := ens.Predict(ctx, []float64{ ... })
	//
	// The returned class is the label the model was trained on, e.g. 1, 2 or 3
	// for the stages found in the training dataset.
	Predict(context.Context, []float64) (int, error)
	// Sigkill releases all resources acquired by Restore. No predictions can be
	// made anymore after calling Sigkill.
	Sigkill() error
}
