package analyze

import snowballeng "github.com/kljensen/snowball/english"

// SnowballStemmer adapts the Snowball/Porter2 English stemmer to the
// Stemmer type. The bool argument to Stem enables the stemmer's stopword
// step; analyzers already run their own pluggable stopword filter before
// stemming, so it is left disabled here.
func SnowballStemmer(token string) string {
	return snowballeng.Stem(token, false)
}
