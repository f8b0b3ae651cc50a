// Package simrec recommends documents that are similar to a given reference,
// using a precomputed pairwise similarity matrix.
//
// The corpus is a CSV or Parquet table with ref, title and title_url columns;
// the matrix is a square NumPy .npy array whose row i holds the similarity of
// document i to every other document.
//
//	eng, err := simrec.Open(ctx, "df_all_clean.csv", "pairwise_similarities.npy")
//	if err != nil {
//	    return err
//	}
//	recs, err := eng.Recommend(ctx, "MN 1")
//	if errors.Is(err, simrec.ErrReferenceNotFound) {
//	    fmt.Println(simrec.NotFoundMessage)
//	}
//
// By default the five best matches are returned after skipping the
// reference itself and its single nearest neighbour; see WithSkipNearest.
package simrec
