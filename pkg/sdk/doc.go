// Package predict provides an embedded Go client for symptom-based disease
// prediction. It runs the full prediction stack in-process: text
// preprocessing, the TF-IDF classifier, the LSTM network, and the weighted
// ensemble that combines them.
//
//	client, _ := predict.New(ctx, predict.WithModelsDir("models"))
//	defer client.Close()
//
//	res, _ := client.Predict(ctx, "high fever and persistent cough")
//	fmt.Println(res.Disease, res.Confidence)
//
// An optional Redis cache stores successful predictions:
//
//	client, _ := predict.New(ctx,
//	    predict.WithModelsDir("models"),
//	    predict.WithRedisCache("localhost:6379", ""),
//	)
//
// Models that fail to load degrade the client instead of breaking it: the
// surviving model answers alone, and the rule-based triage keeps working
// with no models at all. Status reports what actually loaded.
package predict
