/*
Package markov generates short, pronounceable nonsense words from a
character-level Markov chain trained on a real vocabulary.

A Model is built once from a wordlist.Corpus and is immutable afterwards,
so any number of goroutines may generate from it concurrently. Generation
is a bounded random walk over the chain with a relative-probability cutoff
on each step and a retry/relaxation policy around the walk; every returned
word satisfies the length bounds (or a documented fallback) and never
appears in the training corpus.

Four generation modes are supported: free, prefix-constrained,
suffix-constrained (which requires a model trained on reversed words) and
combined prefix+suffix, which stitches walks over a forward model and a
reverse companion.

Built models can be persisted to and recalled from a SQLite-backed Store,
keyed by their construction parameters.
*/
package markov
