// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package recommend

// Cypher executed by the ranking pipeline. All user-facing inputs travel as
// query parameters; nothing is interpolated into the query text.
const (
	ratingCountQuery = `
MATCH (u:User {userId: $userId})-[r:RATED]->(m:Movie)
RETURN count(r) AS ratingCount`

	// Tier 1: derive the user's top genres from highly rated movies, then
	// rank unseen movies by how many of those genres they match.
	genreAffinityQuery = `
MATCH (u:User {userId: $userId})-[r:RATED]->(m:Movie)-[:IN_GENRE]->(g:Genre)
WHERE r.rating >= $minRating
WITH u, g, count(*) AS genreCount
ORDER BY genreCount DESC
LIMIT $topGenres
MATCH (g)<-[:IN_GENRE]-(rec:Movie)
WHERE NOT exists((u)-[:RATED]->(rec))
  AND rec.imdbRating IS NOT NULL
WITH rec, count(g) AS matchingGenres
ORDER BY matchingGenres DESC, rec.imdbRating DESC, rec.title ASC
RETURN DISTINCT rec
LIMIT $limit`

	// Tier 2: rank unseen movies by genres shared with any highly rated
	// movie, counting each genre once.
	sharedGenreQuery = `
MATCH (u:User {userId: $userId})
MATCH (u)-[r:RATED]->(m:Movie)
WHERE r.rating >= $minRating
MATCH (m)-[:IN_GENRE]->(g:Genre)<-[:IN_GENRE]-(similar:Movie)
WHERE NOT exists((u)-[:RATED]->(similar))
  AND similar.imdbRating IS NOT NULL
WITH similar, count(DISTINCT g) AS commonGenres
ORDER BY commonGenres DESC, similar.imdbRating DESC, similar.title ASC
RETURN DISTINCT similar
LIMIT $limit`

	// Tier 3: unseen movies by rating alone.
	personalPopularityQuery = `
MATCH (u:User {userId: $userId})
MATCH (m:Movie)
WHERE NOT exists((u)-[:RATED]->(m))
  AND m.imdbRating IS NOT NULL
RETURN m
ORDER BY m.imdbRating DESC, m.title ASC
LIMIT $limit`

	// Cold start and global fallback: no user context at all.
	popularQuery = `
MATCH (m:Movie)
WHERE m.imdbRating IS NOT NULL
RETURN m
ORDER BY m.imdbRating DESC, m.title ASC
LIMIT $limit`

	// Similarity is by shared genre count only; unrated movies are eligible
	// here, unlike the recommendation tiers.
	similarMoviesQuery = `
MATCH (m:Movie {title: $title})
MATCH (m)-[:IN_GENRE]->(g:Genre)<-[:IN_GENRE]-(other:Movie)
WHERE m <> other
WITH other, count(g) AS commonGenres
ORDER BY commonGenres DESC, other.title ASC
RETURN other
LIMIT $limit`

	// Fuzzy fulltext search over the movie index. The trailing "~" enables
	// Lucene fuzzy matching on the last term.
	searchQuery = `
CALL db.index.fulltext.queryNodes($index, $searchText + "~")
YIELD node, score
WHERE node:Movie
RETURN node, score
ORDER BY score DESC
LIMIT $limit`
)
