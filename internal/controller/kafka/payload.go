package kafka

// CompletionBatch is the S3 bucket-notification document the object store
// publishes when object writes finish. Only the object key is trusted;
// everything else in the document is ignored.
type CompletionBatch struct {
	Records []CompletionRecord `json:"Records"`
}

type CompletionRecord struct {
	S3 struct {
		Object struct {
			Key string `json:"key"`
		} `json:"object"`
	} `json:"s3"`
}

// ObjectKeys flattens the batch into the keys the coordinator consumes,
// dropping records with no key at all.
func (b CompletionBatch) ObjectKeys() []string {
	keys := make([]string, 0, len(b.Records))

	for _, rec := range b.Records {
		if rec.S3.Object.Key == "" {
			continue
		}

		keys = append(keys, rec.S3.Object.Key)
	}

	return keys
}
